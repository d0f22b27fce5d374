package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replay feeds a compact publish history into b: 'F' a failed delivery, 'S' a
// successful one.
func replay(b *Breaker, outcomes string) (opened, closed int) {
	for _, o := range outcomes {
		var change StateChange
		switch o {
		case 'F':
			_, change = b.RecordFailure()
		case 'S':
			_, change = b.RecordSuccess()
		}
		if change.Opened {
			opened++
		}
		if change.Closed {
			closed++
		}
	}
	return opened, closed
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name     string
		outcomes string
		want     State
		opened   int
		closed   int
	}{
		{name: "fresh breaker is closed", outcomes: "", want: StateClosed},
		{name: "failures below threshold keep it closed", outcomes: "FF", want: StateClosed},
		{name: "threshold failures open it once", outcomes: "FFFF", want: StateOpen, opened: 1},
		{name: "a success in between restarts the failure run", outcomes: "FFSFF", want: StateClosed},
		{name: "successes below threshold keep it open", outcomes: "FFFS", want: StateOpen, opened: 1},
		{name: "a failure while open restarts the success run", outcomes: "FFFSFS", want: StateOpen, opened: 1},
		{name: "threshold successes close it", outcomes: "FFFSS", want: StateClosed, opened: 1, closed: 1},
		{name: "reopens after closing", outcomes: "FFFSSFFF", want: StateOpen, opened: 2, closed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("lifecycle", WithFailureThreshold(3), WithSuccessThreshold(2))

			opened, closed := replay(b, tt.outcomes)

			assert.Equal(t, tt.want, b.State())
			assert.Equal(t, tt.opened, opened, "open transitions")
			assert.Equal(t, tt.closed, closed, "close transitions")
		})
	}
}

func TestBreakerFallbackAnswers(t *testing.T) {
	b := New("redis-publisher", WithFailureThreshold(2), WithSuccessThreshold(1))

	useFallback, _ := b.RecordFailure()
	assert.False(t, useFallback, "first failure still belongs to the primary")

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())

	useFallback, _ = b.RecordFailure()
	assert.True(t, useFallback, "open breaker keeps routing to the fallback")

	primary, change := b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreakerDefaultsAndOptions(t *testing.T) {
	b := New("kafka-publisher", WithFailureThreshold(0), WithSuccessThreshold(-1))
	assert.Equal(t, "kafka-publisher", b.Name())

	_, _ = replay(b, "FFFF")
	assert.Equal(t, StateClosed, b.State(), "non-positive thresholds keep the default of five")
	_, _ = replay(b, "F")
	require.Equal(t, StateOpen, b.State())

	_, _ = replay(b, "SS")
	assert.Equal(t, StateOpen, b.State())
	_, _ = replay(b, "S")
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerReset(t *testing.T) {
	b := New("lifecycle", WithFailureThreshold(2))
	_, _ = replay(b, "FF")
	require.True(t, b.IsOpen())

	b.Reset()

	assert.Equal(t, "closed", b.State().String())
	_, _ = replay(b, "F")
	assert.False(t, b.IsOpen(), "reset clears the failure run")
}

func TestBreakerConcurrentOutcomes(t *testing.T) {
	b := New("lifecycle", WithFailureThreshold(50))

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.RecordFailure()
		}()
	}
	wg.Wait()

	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())
}
