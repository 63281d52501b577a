package detect

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// Shared fixtures: every detector test runs against the real position
// provider over a real year, so assertions use generous tolerances
// around well-documented moments rather than exact timestamps.

var (
	testLog = logger.Nop()
	year24  = almagest.Years(2024, 2024)
)

func runDetector(t *testing.T, d Detector, iv almagest.Interval) []almagest.Event {
	t.Helper()
	events, err := d.Detect(context.Background(), ephem.NewProvider(), iv)
	if err != nil {
		t.Fatalf("%s: %v", d.Name(), err)
	}
	return events
}

// filterBySummary returns events whose summary contains the fragment.
func filterBySummary(events []almagest.Event, fragment string) []almagest.Event {
	var out []almagest.Event
	for _, e := range events {
		if strings.Contains(e.Summary, fragment) {
			out = append(out, e)
		}
	}
	return out
}

func TestGridStep(t *testing.T) {
	assert.Equal(t, fastStep, gridStep(ephem.Moon))
	assert.Equal(t, fastStep, gridStep(ephem.Sun, ephem.Moon))
	assert.Equal(t, slowStep, gridStep(ephem.Jupiter, ephem.Uranus))
}

func TestDetect_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewAspectDetector([]string{"jupiter", "uranus"}, []string{"conjunction"}, 1.0, ephem.Geocentric, testLog)
	_, err := d.Detect(ctx, ephem.NewProvider(), year24)
	assert.ErrorIs(t, err, context.Canceled)
}

func assertAllInside(t *testing.T, events []almagest.Event, iv almagest.Interval) {
	t.Helper()
	for _, e := range events {
		assert.True(t, iv.Contains(e.Start), "event %q at %s outside interval", e.Summary, e.Start)
	}
}
