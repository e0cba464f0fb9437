package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phaseFunc struct {
	name string
	fn   func(*Context) error
}

func (p phaseFunc) Name() string                 { return p.name }
func (p phaseFunc) Provision(ctx *Context) error { return p.fn(ctx) }

func TestRunPhases_Success(t *testing.T) {
	t.Parallel()
	var executed []string
	record := func(name string) Phase {
		return phaseFunc{name: name, fn: func(*Context) error {
			executed = append(executed, name)
			return nil
		}}
	}

	obs := &recordingObserver{}
	ctx := &Context{Context: context.Background(), Observer: obs}

	err := RunPhases(ctx, []Phase{record("infrastructure"), record("compute"), record("bootstrap")})

	require.NoError(t, err)
	assert.Equal(t, []string{"infrastructure", "compute", "bootstrap"}, executed)
	assert.Equal(t, []EventType{
		EventPhaseStarted, EventPhaseCompleted,
		EventPhaseStarted, EventPhaseCompleted,
		EventPhaseStarted, EventPhaseCompleted,
	}, obs.types())
}

func TestRunPhases_StopsOnFailure(t *testing.T) {
	t.Parallel()
	var executed []string
	obs := &recordingObserver{}
	ctx := &Context{Context: context.Background(), Observer: obs}

	err := RunPhases(ctx, []Phase{
		phaseFunc{name: "infrastructure", fn: func(*Context) error {
			executed = append(executed, "infrastructure")
			return errors.New("quota exceeded")
		}},
		phaseFunc{name: "compute", fn: func(*Context) error {
			executed = append(executed, "compute")
			return nil
		}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "infrastructure phase failed")
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, []string{"infrastructure"}, executed)
	assert.Equal(t, []EventType{EventPhaseStarted, EventPhaseFailed}, obs.types())
}

func TestRunPhases_CancelledContext(t *testing.T) {
	t.Parallel()
	cctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	ctx := &Context{Context: cctx, Observer: &recordingObserver{}}
	err := RunPhases(ctx, []Phase{phaseFunc{name: "infrastructure", fn: func(*Context) error {
		ran = true
		return nil
	}}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestRunPhases_Empty(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	ctx := &Context{Context: context.Background(), Observer: obs}

	require.NoError(t, RunPhases(ctx, nil))
	assert.Empty(t, obs.types())
}
