package application_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/formpanel/internal/application"
	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

// mapViewStateStore implements driven.ViewStateStore for tests.
type mapViewStateStore struct {
	mu     sync.Mutex
	states map[string]model.ViewState
}

func newMapViewStateStore() *mapViewStateStore {
	return &mapViewStateStore{states: make(map[string]model.ViewState)}
}

func (m *mapViewStateStore) Load(_ context.Context, id string) (model.ViewState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[id]
	return s, ok
}

func (m *mapViewStateStore) Save(_ context.Context, id string, s model.ViewState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = s
}

func TestPanelService_CurrentDefaultsToSignUp(t *testing.T) {
	svc := application.NewPanelService(newMapViewStateStore())

	d := svc.Current(context.Background(), "visitor-1")

	assert.Equal(t, model.DisplayShown, d.SignUp)
	assert.Equal(t, model.DisplayHidden, d.Login)
}

func TestPanelService_ShowLoginIdempotent(t *testing.T) {
	svc := application.NewPanelService(newMapViewStateStore())
	ctx := context.Background()

	first := svc.ShowLogin(ctx, "v")
	second := svc.ShowLogin(ctx, "v")

	assert.Equal(t, first, second)
	assert.Equal(t, model.DisplayHidden, second.SignUp)
	assert.Equal(t, model.DisplayShown, second.Login)
	assert.Equal(t, second, svc.Current(ctx, "v"))
}

func TestPanelService_ScenarioC_LastCallWins(t *testing.T) {
	svc := application.NewPanelService(newMapViewStateStore())
	ctx := context.Background()

	svc.ShowSignUp(ctx, "v")
	svc.ShowLogin(ctx, "v")

	d := svc.Current(ctx, "v")
	assert.Equal(t, model.DisplayHidden, d.SignUp)
	assert.Equal(t, model.DisplayShown, d.Login)
}

func TestPanelService_VisitorsIndependent(t *testing.T) {
	svc := application.NewPanelService(newMapViewStateStore())
	ctx := context.Background()

	svc.ShowLogin(ctx, "a")

	assert.Equal(t, model.PanelLogin, svc.Current(ctx, "a").Active())
	assert.Equal(t, model.PanelSignUp, svc.Current(ctx, "b").Active())
}

func TestPanelToggler_Toggles(t *testing.T) {
	toggler := application.NewPanelToggler()
	assert.Equal(t, model.PanelSignUp, toggler.Display().Active())

	d := toggler.ShowLogin()
	assert.Equal(t, model.DisplayShown, d.Login)
	assert.Equal(t, model.DisplayHidden, d.SignUp)

	d = toggler.ShowSignUp()
	assert.Equal(t, model.DisplayShown, d.SignUp)
	assert.Equal(t, model.DisplayHidden, d.Login)
	assert.Equal(t, d, toggler.Display())
}

func TestPanelToggler_ConcurrentExclusivity(t *testing.T) {
	toggler := application.NewPanelToggler()

	const goroutines = 100
	var wg sync.WaitGroup
	wg.Add(goroutines * 2)

	for i := range goroutines {
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				toggler.ShowLogin()
			} else {
				toggler.ShowSignUp()
			}
		}()
		go func() {
			defer wg.Done()
			d := toggler.Display()
			// Exactly one panel is visible at every observation.
			assert.NotEqual(t, d.SignUp, d.Login)
		}()
	}

	wg.Wait()
}
