package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/almagest"
)

func TestZodiacDetector_SunIngresses2024(t *testing.T) {
	d := NewZodiacDetector([]string{"sun"}, testLog)
	events := runDetector(t, d, year24)

	// The Sun changes sign roughly every 30 days.
	assert.GreaterOrEqual(t, len(events), 12)
	assert.LessOrEqual(t, len(events), 13)
	assertAllInside(t, events, year24)

	aries := filterBySummary(events, "Sun enters Aries")
	require.Len(t, aries, 1)

	// Vernal equinox 2024: March 20, 03:06 UTC.
	equinox := time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC)
	assert.WithinDuration(t, equinox, aries[0].Start, 2*time.Hour)
	assert.Equal(t, almagest.KindZodiacIngress, aries[0].Kind)
	assert.Equal(t, "Astro: Sun Zodiac", aries[0].Calendar)
}

func TestZodiacDetector_MoonIngressCadence(t *testing.T) {
	d := NewZodiacDetector([]string{"moon"}, testLog)
	events := runDetector(t, d, year24)

	// The Moon changes sign every ~2.3 days: 155-165 ingresses a year.
	assert.GreaterOrEqual(t, len(events), 150)
	assert.LessOrEqual(t, len(events), 170)

	// Chronologically consecutive ingresses step one sign forward.
	almagest.SortByStart(events)
	for i := 0; i+1 < len(events); i++ {
		gap := events[i+1].Start.Sub(events[i].Start)
		assert.Greater(t, gap, 36*time.Hour, "ingress %d to %d too close", i, i+1)
		assert.Less(t, gap, 72*time.Hour)
	}
}

func TestIngressBoundary(t *testing.T) {
	// Direct motion into sign 1 crosses 30 degrees.
	assert.Equal(t, 30.0, ingressBoundary(0, 1))
	// Retrograde back into sign 0 re-crosses the same boundary.
	assert.Equal(t, 30.0, ingressBoundary(1, 0))
	// Pisces to Aries wraps through 0; retrograding back re-crosses 0.
	assert.Equal(t, 0.0, ingressBoundary(11, 0))
	assert.Equal(t, 0.0, ingressBoundary(0, 11))
}
