package web

import (
	vm "github.com/ericfisherdev/formpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

const pageTitle = "formpanel"

const (
	signUpIntro = "Create an account with your **email address** and a password."
	loginIntro  = "Welcome back. Log in with the email you _signed up_ with."
)

// panelCopy is the static text of each panel. intro is Markdown; introHTML
// is its rendering, filled in once at package init.
type panelCopy struct {
	form         model.Form
	heading      string
	intro        string
	introHTML    string
	switchTo     model.Panel
	switchPrompt string
	switchLabel  string
}

var panelCopies = mustRenderIntros(map[model.Panel]panelCopy{
	model.PanelSignUp: {
		form:         model.FormSignUp,
		heading:      "Create your account",
		intro:        signUpIntro,
		switchTo:     model.PanelLogin,
		switchPrompt: "Already have an account?",
		switchLabel:  "Log in",
	},
	model.PanelLogin: {
		form:         model.FormLogIn,
		heading:      "Log in",
		intro:        loginIntro,
		switchTo:     model.PanelSignUp,
		switchPrompt: "Don't have an account?",
		switchLabel:  "Sign up",
	},
})

// panelOrder fixes the document order of the panels.
var panelOrder = []model.Panel{model.PanelSignUp, model.PanelLogin}

func toPageViewModel(display model.PanelDisplay, csrf string) vm.PageViewModel {
	panels := make([]vm.PanelViewModel, 0, len(panelOrder))
	for _, p := range panelOrder {
		panels = append(panels, toPanelViewModel(p, display.For(p)))
	}

	return vm.PageViewModel{
		Title:     pageTitle,
		CSRFToken: csrf,
		Panels:    panels,
	}
}

func toPanelViewModel(p model.Panel, d model.Display) vm.PanelViewModel {
	c := panelCopies[p]

	return vm.PanelViewModel{
		ElementID:       p.ElementID(),
		Display:         string(d),
		Heading:         c.heading,
		IntroHTML:       c.introHTML,
		Form:            string(c.form),
		SubmitLabel:     c.form.Label(),
		IdentifierField: c.form.IdentifierField(),
		IdentifierLabel: "Email",
		SecretField:     c.form.SecretField(),
		SecretLabel:     "Password",
		SwitchPanel:     string(c.switchTo),
		SwitchPrompt:    c.switchPrompt,
		SwitchLabel:     c.switchLabel,
	}
}

func toAckViewModel(ack model.Acknowledgment) *vm.AckViewModel {
	return &vm.AckViewModel{
		Form:    string(ack.Form),
		Message: ack.Message,
	}
}
