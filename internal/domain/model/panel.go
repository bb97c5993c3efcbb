package model

// ViewState is the explicit, owned view state of the page: which panel is active.
// Holding a single active panel makes "exactly one panel visible" structural.
type ViewState struct {
	Active Panel
}

// PanelDisplay is the rendered display mode of both panels.
type PanelDisplay struct {
	SignUp Display
	Login  Display
}

// DefaultViewState is the state before any toggle runs: the sign-up panel is shown.
func DefaultViewState() ViewState {
	return ViewState{Active: PanelSignUp}
}

// ShowLogin returns the state with the login panel active. It does not read the
// prior state, so repeated calls are idempotent.
func ShowLogin() ViewState {
	return ViewState{Active: PanelLogin}
}

// ShowSignUp returns the state with the sign-up panel active.
func ShowSignUp() ViewState {
	return ViewState{Active: PanelSignUp}
}

// Show returns the state with the given panel active.
func Show(p Panel) ViewState {
	if p == PanelLogin {
		return ShowLogin()
	}
	return ShowSignUp()
}

// RenderPanels maps a view state to the display mode of each panel.
// An unset state renders as the default state.
func RenderPanels(s ViewState) PanelDisplay {
	if s.Active == PanelLogin {
		return PanelDisplay{SignUp: DisplayHidden, Login: DisplayShown}
	}
	return PanelDisplay{SignUp: DisplayShown, Login: DisplayHidden}
}

// For returns the display mode of a single panel.
func (d PanelDisplay) For(p Panel) Display {
	if p == PanelLogin {
		return d.Login
	}
	return d.SignUp
}

// Active returns the panel currently shown.
func (d PanelDisplay) Active() Panel {
	if d.Login == DisplayShown {
		return PanelLogin
	}
	return PanelSignUp
}
