package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulianDay_J2000Epoch(t *testing.T) {
	epoch := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, J2000JD, JulianDay(epoch), 1e-9)
	assert.InDelta(t, 0, DaysSinceJ2000(epoch), 1e-9)
}

func TestJulianDay_KnownValue(t *testing.T) {
	// 1987 April 10, 0h UT is JD 2446895.5 (Meeus, example 7.b).
	tm := time.Date(1987, 4, 10, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 2446895.5, JulianDay(tm), 1e-6)
}

func TestFromJulianDay_Roundtrip(t *testing.T) {
	for _, tm := range []time.Time{
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 8, 18, 17, 42, 0, time.UTC),
		time.Date(1850, 7, 1, 6, 30, 0, 0, time.UTC),
	} {
		got := FromJulianDay(JulianDay(tm))
		require.WithinDuration(t, tm, got, 5*time.Millisecond)
	}
}

func TestNormalize360(t *testing.T) {
	assert.InDelta(t, 0, Normalize360(360), 1e-12)
	assert.InDelta(t, 350, Normalize360(-10), 1e-12)
	assert.InDelta(t, 10, Normalize360(730), 1e-12)
}

func TestNormalize180(t *testing.T) {
	assert.InDelta(t, -180, Normalize180(180), 1e-12)
	assert.InDelta(t, 0, Normalize180(360), 1e-12)
	assert.InDelta(t, -10, Normalize180(350), 1e-12)
	assert.InDelta(t, 170, Normalize180(-190), 1e-12)
}

func TestSeparation(t *testing.T) {
	// Same point.
	assert.InDelta(t, 0, Separation(120, 5, 120, 5), 1e-9)
	// Along the equator the separation is the longitude difference.
	assert.InDelta(t, 90, Separation(0, 0, 90, 0), 1e-9)
	// Antipodal.
	assert.InDelta(t, 180, Separation(0, 0, 180, 0), 1e-9)
	// Pole to pole through latitude.
	assert.InDelta(t, 180, Separation(0, 90, 0, -90), 1e-9)
	// Symmetric.
	assert.InDelta(t,
		Separation(10, 20, 200, -5),
		Separation(200, -5, 10, 20), 1e-12)
}
