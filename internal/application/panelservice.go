package application

import (
	"context"
	"sync"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

// PanelService keeps the view state of each visitor and renders it.
// Every toggle is an unconditional write, so the last call wins.
type PanelService struct {
	store driven.ViewStateStore
}

// NewPanelService creates a PanelService backed by store.
func NewPanelService(store driven.ViewStateStore) *PanelService {
	return &PanelService{store: store}
}

// ShowLogin hides the sign-up panel and shows the login panel.
func (s *PanelService) ShowLogin(ctx context.Context, visitorID string) model.PanelDisplay {
	return s.set(ctx, visitorID, model.ShowLogin())
}

// ShowSignUp shows the sign-up panel and hides the login panel.
func (s *PanelService) ShowSignUp(ctx context.Context, visitorID string) model.PanelDisplay {
	return s.set(ctx, visitorID, model.ShowSignUp())
}

// Show makes p the active panel.
func (s *PanelService) Show(ctx context.Context, visitorID string, p model.Panel) model.PanelDisplay {
	return s.set(ctx, visitorID, model.Show(p))
}

// Current renders the visitor's state, or the default state for an unknown visitor.
func (s *PanelService) Current(ctx context.Context, visitorID string) model.PanelDisplay {
	state, ok := s.store.Load(ctx, visitorID)
	if !ok {
		state = model.DefaultViewState()
	}
	return model.RenderPanels(state)
}

func (s *PanelService) set(ctx context.Context, visitorID string, state model.ViewState) model.PanelDisplay {
	s.store.Save(ctx, visitorID, state)
	return model.RenderPanels(state)
}

// PanelToggler holds a single view state behind a mutex. It is the toggler
// for a single owner, such as one terminal session.
type PanelToggler struct {
	mu    sync.RWMutex
	state model.ViewState
}

// NewPanelToggler creates a toggler in the default state.
func NewPanelToggler() *PanelToggler {
	return &PanelToggler{state: model.DefaultViewState()}
}

// ShowLogin activates the login panel and returns the rendered display.
func (t *PanelToggler) ShowLogin() model.PanelDisplay {
	return t.Show(model.PanelLogin)
}

// ShowSignUp activates the sign-up panel and returns the rendered display.
func (t *PanelToggler) ShowSignUp() model.PanelDisplay {
	return t.Show(model.PanelSignUp)
}

// Show activates p and returns the rendered display.
func (t *PanelToggler) Show(p model.Panel) model.PanelDisplay {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = model.Show(p)
	return model.RenderPanels(t.state)
}

// Display renders the current view state.
func (t *PanelToggler) Display() model.PanelDisplay {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return model.RenderPanels(t.state)
}
