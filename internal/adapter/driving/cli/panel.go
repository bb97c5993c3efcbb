package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/formpanel/internal/application"
	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

func (a *app) newPanelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Toggle between the sign-up and log-in panels",
	}

	cmd.AddCommand(
		a.newShowPanelCommand("show-login", model.PanelLogin, (*application.PanelToggler).ShowLogin),
		a.newShowPanelCommand("show-signup", model.PanelSignUp, (*application.PanelToggler).ShowSignUp),
	)
	return cmd
}

func (a *app) newShowPanelCommand(use string, panel model.Panel, show func(*application.PanelToggler) model.PanelDisplay) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: "Show the " + string(panel) + " panel and hide the other",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			display := show(application.NewPanelToggler())

			p := a.printer(cmd)
			rows := make([][]string, 0, 2)
			for _, pn := range []model.Panel{model.PanelSignUp, model.PanelLogin} {
				rows = append(rows, []string{pn.ElementID(), p.Display(string(display.For(pn)))})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Element", "Display"}, rows)
		},
	}
}
