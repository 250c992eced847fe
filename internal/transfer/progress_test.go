package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterMonotonicWithinHint(t *testing.T) {
	var observations []Progress
	reporter := NewReporter(1000, func(p Progress) {
		observations = append(observations, p)
	})

	for _, delta := range []int64{100, 250, 50, 400, 200} {
		reporter.Add(delta)
	}

	require.Len(t, observations, 5)
	assert.Equal(t, int64(1000), reporter.Received())

	previous := -1.0
	for _, p := range observations {
		assert.GreaterOrEqual(t, p.Percent, previous)
		assert.LessOrEqual(t, p.Percent, 100.0)
		assert.GreaterOrEqual(t, p.Percent, 0.0)
		previous = p.Percent
	}
	assert.InDelta(t, 100.0, observations[4].Percent, 0.001)
}

func TestReporterClampsBeyondHint(t *testing.T) {
	var last Progress
	reporter := NewReporter(100, func(p Progress) {
		last = p
	})

	// The hint is advisory; the stream delivers three times as much.
	for i := 0; i < 3; i++ {
		reporter.Add(100)
	}

	assert.Equal(t, int64(300), last.Received)
	assert.Equal(t, 100.0, last.Percent)
}

func TestReporterNoHint(t *testing.T) {
	var last Progress
	reporter := NewReporter(0, func(p Progress) {
		last = p
	})

	reporter.Add(500)

	assert.Equal(t, int64(500), last.Received)
	assert.Equal(t, 0.0, last.Percent, "no hint means no percentage to report")
}

func TestReporterNilCallback(t *testing.T) {
	reporter := NewReporter(100, nil)
	reporter.Add(50)
	assert.Equal(t, int64(50), reporter.Received())
}
