package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ericfisherdev/formpanel/internal/adapter/driven/logsink"
	"github.com/ericfisherdev/formpanel/internal/application"
	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

// newCaptureCommand builds the signup or login command. Each flag stands for one
// form element; a flag left off the command line is an absent element.
func (a *app) newCaptureCommand(form model.Form) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(form),
		Short: "Capture a " + form.Label() + " submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := a.openLog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeLog(); cerr != nil {
					a.deps.Logger.Warn("failed to close capture log", "error", cerr)
				}
			}()

			sink := logsink.MultiSink{logsink.NewSlogSink(a.deps.Logger), log}
			svc := application.NewCaptureService(sink, a.deps.LogSecrets, a.deps.Logger)

			outcome, err := svc.Capture(cmd.Context(), form, flagFields{
				flags: cmd.Flags(),
				names: map[string]string{
					form.IdentifierField(): "email",
					form.SecretField():     "password",
				},
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			p.Success("%s", outcome.Ack.Message)
			p.Print("%s", p.Dim(outcome.Record.String()))
			return nil
		},
	}

	cmd.Flags().String("email", "", "value of the "+form.IdentifierField()+" field")
	cmd.Flags().String("password", "", "value of the "+form.SecretField()+" field")
	return cmd
}

// flagFields reads form elements from command flags. names maps an element ID
// to the flag that carries it.
type flagFields struct {
	flags *pflag.FlagSet
	names map[string]string
}

func (f flagFields) Lookup(id string) (string, bool) {
	name, ok := f.names[id]
	if !ok || !f.flags.Changed(name) {
		return "", false
	}
	v, err := f.flags.GetString(name)
	if err != nil {
		return "", false
	}
	return v, true
}
