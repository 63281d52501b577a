package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
)

var newYork = almagest.Coordinates{Lat: 40.7128, Lon: -74.0060}

func TestAlmanacDetector_SunNewYork2024(t *testing.T) {
	d := NewAlmanacDetector([]string{"sun"}, "New York, USA", newYork, testLog)
	events := runDetector(t, d, year24)
	assertAllInside(t, events, year24)

	rises := filterBySummary(events, "Sun Rise")
	sets := filterBySummary(events, "Sun Set")
	mcs := filterBySummary(events, "Sun MC")
	ics := filterBySummary(events, "Sun IC")

	// One of each per day at mid-latitudes, give or take the year
	// boundary.
	for name, got := range map[string][]almagest.Event{
		"rise": rises, "set": sets, "mc": mcs, "ic": ics,
	} {
		assert.GreaterOrEqual(t, len(got), 360, name)
		assert.LessOrEqual(t, len(got), 371, name)
	}

	// June sunrise in New York comes around 09:25 UTC (05:25 EDT).
	var juneRise *almagest.Event
	for i := range rises {
		if rises[i].Start.UTC().Month() == time.June && rises[i].Start.UTC().Day() == 21 {
			juneRise = &rises[i]
			break
		}
	}
	require.NotNil(t, juneRise)
	assert.WithinDuration(t,
		time.Date(2024, 6, 21, 9, 25, 0, 0, time.UTC), juneRise.Start, 20*time.Minute)
	assert.Equal(t, "Astro: Sun", juneRise.Calendar)
	assert.Contains(t, juneRise.Description, "New York")
}

func TestAlmanacDetector_RiseSetDivisions(t *testing.T) {
	d := NewAlmanacDetector([]string{"sun"}, "New York, USA", newYork, testLog)
	events := runDetector(t, d, year24)

	thirds := filterBySummary(events, "Sun 1/3 (Rise-Set)")
	eighths := filterBySummary(events, "Sun 3/8 (Rise-Set)")
	nineteenths := filterBySummary(events, "Sun 10/19 (Rise-Set)")

	// One per complete rise-to-set day.
	for name, got := range map[string][]almagest.Event{
		"1/3": thirds, "3/8": eighths, "10/19": nineteenths,
	} {
		assert.GreaterOrEqual(t, len(got), 355, name)
		assert.LessOrEqual(t, len(got), 367, name)
	}

	// A division marker falls strictly between some rise and the
	// following set.
	require.NotEmpty(t, thirds)
	ev := thirds[len(thirds)/2]
	assert.Equal(t, almagest.KindAlmanac, ev.Kind)
	assert.Zero(t, ev.Duration)
}

func TestAlmanacDetector_TransitCadence(t *testing.T) {
	d := NewAlmanacDetector([]string{"sun"}, "Test", newYork, testLog)
	events := runDetector(t, d, year24)

	mcs := filterBySummary(events, "Sun MC")
	almagest.SortByStart(mcs)

	// Successive upper transits are one solar day apart.
	for i := 0; i+1 < len(mcs); i++ {
		gap := mcs[i+1].Start.Sub(mcs[i].Start)
		assert.InDelta(t, 24, gap.Hours(), 0.3, "transit %d", i)
	}
}

func TestAlmanacDetector_SkipsUnknownAndEarth(t *testing.T) {
	d := NewAlmanacDetector([]string{"earth", "vulcan"}, "Test", newYork, testLog)
	events := runDetector(t, d, year24)
	assert.Empty(t, events)
}

func TestHorizonFor(t *testing.T) {
	assert.InDelta(t, -0.8333, horizonFor(ephem.Sun), 1e-9)
	assert.InDelta(t, -0.8333, horizonFor(ephem.Moon), 1e-9)
	assert.InDelta(t, -0.5667, horizonFor(ephem.Mars), 1e-9)
}
