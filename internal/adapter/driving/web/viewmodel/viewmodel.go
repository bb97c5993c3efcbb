// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// PageViewModel holds everything the two-panel page needs to render.
type PageViewModel struct {
	Title     string
	CSRFToken string
	Ack       *AckViewModel
	Error     string
	Panels    []PanelViewModel
}

// AckViewModel is the acknowledgment shown after a successful capture.
type AckViewModel struct {
	Form    string
	Message string
}

// PanelViewModel holds presentation-ready data for one form panel.
type PanelViewModel struct {
	ElementID string
	Display   string
	Heading   string
	IntroHTML string

	Form            string
	SubmitLabel     string
	IdentifierField string
	IdentifierLabel string
	SecretField     string
	SecretLabel     string

	SwitchPanel  string
	SwitchPrompt string
	SwitchLabel  string
}
