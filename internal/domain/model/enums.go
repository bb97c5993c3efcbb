package model

import "fmt"

// Form identifies which of the two forms a capture reads from.
type Form string

const (
	FormSignUp Form = "signup"
	FormLogIn  Form = "login"
)

// Panel identifies one of the two mutually exclusive panels on the page.
type Panel string

const (
	PanelSignUp Panel = "sign-up"
	PanelLogin  Panel = "login"
)

// Display is the visual display mode written to a panel element.
type Display string

const (
	DisplayShown  Display = "flex"
	DisplayHidden Display = "none"
)

// Fixed per-form attributes. Field IDs double as element ids in the page markup
// and as field keys in the JSON API.
var formSpecs = map[Form]struct {
	identifierField string
	secretField     string
	label           string
	ack             string
}{
	FormSignUp: {"email", "password", "Sign Up", "Account created successfully!"},
	FormLogIn:  {"login-email", "login-password", "Log In", "Logged in successfully!"},
}

// Forms returns both forms in page order.
func Forms() []Form {
	return []Form{FormSignUp, FormLogIn}
}

// ParseForm converts an external form name into a Form.
func ParseForm(s string) (Form, error) {
	switch s {
	case "signup", "sign-up":
		return FormSignUp, nil
	case "login", "log-in":
		return FormLogIn, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownForm, s)
	}
}

// IdentifierField returns the element id holding the form's identifier.
func (f Form) IdentifierField() string { return formSpecs[f].identifierField }

// SecretField returns the element id holding the form's secret.
func (f Form) SecretField() string { return formSpecs[f].secretField }

// Label returns the diagnostic label, e.g. "Sign Up".
func (f Form) Label() string { return formSpecs[f].label }

// AckMessage returns the fixed success acknowledgment shown to the user.
func (f Form) AckMessage() string { return formSpecs[f].ack }

// Valid reports whether f is one of the known forms.
func (f Form) Valid() bool {
	_, ok := formSpecs[f]
	return ok
}

// ParsePanel converts an external panel name into a Panel.
func ParsePanel(s string) (Panel, error) {
	switch s {
	case "sign-up", "signup":
		return PanelSignUp, nil
	case "login", "log-in":
		return PanelLogin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPanel, s)
	}
}

// ElementID returns the id of the panel's container element.
func (p Panel) ElementID() string {
	if p == PanelLogin {
		return "login-form"
	}
	return "sign-up-form"
}
