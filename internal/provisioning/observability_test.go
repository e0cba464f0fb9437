package provisioning

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger returns a logr.Logger whose formatted lines are appended to
// the returned slice.
func captureLogger(verbosity int) (logr.Logger, func() []string) {
	var mu sync.Mutex
	var lines []string
	log := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, args)
	}, funcr.Options{Verbosity: verbosity})
	return log, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), lines...)
	}
}

func TestLogObserver_Printf(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	observer := NewLogObserver(log)

	observer.Printf("[Network:VPC] Created %s", "vpc-0001")

	require.Len(t, lines(), 1)
	assert.Contains(t, lines()[0], `"msg"="[Network:VPC] Created vpc-0001"`)
}

func TestLogObserver_Event(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	observer := NewLogObserver(log)

	LogResourceCreated(observer, "infrastructure", "network", "midkemia", "vpc-0001")

	require.Len(t, lines(), 1)
	line := lines()[0]
	assert.Contains(t, line, `"msg"="network created"`)
	assert.Contains(t, line, `"eventType"="resource.created"`)
	assert.Contains(t, line, `"phase"="infrastructure"`)
	assert.Contains(t, line, `"resource"="midkemia"`)
	assert.Contains(t, line, `"id"="vpc-0001"`)
	assert.Contains(t, line, `"type"="network"`)
}

func TestLogObserver_FailuresLogAsErrors(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	observer := NewLogObserver(log)

	LogPhaseFailed(observer, "compute", errors.New("boom"))
	LogResourceFailed(observer, "compute", "instance", "bastion-a", errors.New("quota"))

	require.Len(t, lines(), 2)
	for _, line := range lines() {
		assert.Contains(t, line, `"error"=null`)
	}
	assert.Contains(t, lines()[0], "failed: boom")
	assert.Contains(t, lines()[1], "instance failed: quota")
}

func TestLogObserver_WithFields(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	base := NewLogObserver(log)

	scoped := base.WithFields(map[string]string{"network": "midkemia"})
	scoped.WithFields(map[string]string{"bastion": "bastion-a"}).Printf("hello")
	base.Printf("plain")

	all := lines()
	require.Len(t, all, 2)
	assert.Contains(t, all[0], `"bastion"="bastion-a"`)
	assert.Contains(t, all[0], `"network"="midkemia"`)
	assert.Less(t, strings.Index(all[0], "bastion"), strings.Index(all[0], "network"), "fields are sorted")
	assert.NotContains(t, all[1], "network", "the parent observer is unchanged")
}

func TestLogObserver_EventFieldsOverrideContext(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	observer := NewLogObserver(log).WithFields(map[string]string{"type": "context"})

	LogResourceDeleted(observer, "destroy", "subnet", "public-a")

	require.Len(t, lines(), 1)
	assert.Contains(t, lines()[0], `"type"="subnet"`)
	assert.NotContains(t, lines()[0], `"type"="context"`)
}

func TestLogObserver_ProgressIsVerbose(t *testing.T) {
	t.Parallel()
	quietLog, quiet := captureLogger(0)
	NewLogObserver(quietLog).Progress("compute", 1, 2)
	assert.Empty(t, quiet())

	verboseLog, verbose := captureLogger(1)
	NewLogObserver(verboseLog).Progress("compute", 1, 2)
	require.Len(t, verbose(), 1)
	assert.Contains(t, verbose()[0], `"current"=1`)
	assert.Contains(t, verbose()[0], `"total"=2`)
}

func TestEventHelpers(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}

	LogPhaseStart(obs, "infrastructure")
	LogPhaseComplete(obs, "infrastructure", 1500*time.Millisecond)
	LogResourceCreating(obs, "infrastructure", "subnet", "public-a")
	LogResourceExists(obs, "infrastructure", "subnet", "public-a", "subnet-0001")
	LogResourceDeleting(obs, "destroy", "subnet", "public-a")

	require.Len(t, obs.events, 5)
	assert.Equal(t, []EventType{
		EventPhaseStarted, EventPhaseCompleted, EventResourceCreating, EventResourceExists, EventResourceDeleting,
	}, obs.types())
	assert.Equal(t, "completed in 1.5s", obs.events[1].Message)
	assert.Equal(t, "1.5s", obs.events[1].Fields["duration"])
	assert.Equal(t, "subnet already exists", obs.events[3].Message)
	assert.Equal(t, "subnet-0001", obs.events[3].Fields["id"])
	assert.Equal(t, "deleting subnet", obs.events[4].Message)
}
