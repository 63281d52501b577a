package ics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/almagest"
)

func newTestWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	w := NewWriter(dir)
	w.now = func() time.Time {
		return time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	}
	return w, dir
}

func TestWriteAll_OneFilePerCalendar(t *testing.T) {
	w, dir := newTestWriter(t)

	paths, err := w.WriteAll([]almagest.Event{
		{Summary: "Full Moon", Start: time.Date(2024, 4, 23, 23, 49, 0, 0, time.UTC), Calendar: "Astro: Moon Phases"},
		{Summary: "New Moon", Start: time.Date(2024, 4, 8, 18, 21, 0, 0, time.UTC), Calendar: "Astro: Moon Phases"},
		{Summary: "Summer Solstice", Start: time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC), Calendar: "Astro: Seasons"},
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(dir, "Astro_Moon_Phases.ics"), paths[0])
	assert.Equal(t, filepath.Join(dir, "Astro_Seasons.ics"), paths[1])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	body := string(data)
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "X-WR-CALNAME:Astro: Moon Phases\r\n")
}

func TestWriteAll_VEventFields(t *testing.T) {
	w, dir := newTestWriter(t)

	_, err := w.WriteAll([]almagest.Event{{
		Summary:     "Solar Eclipse",
		Start:       time.Date(2024, 4, 8, 18, 18, 0, 0, time.UTC),
		Duration:    2 * time.Hour,
		Description: "Solar Eclipse. Max separation: 0.012 deg. Duration: 120 mins.",
		Calendar:    "Astro: Solar Eclipses",
	}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Astro_Solar_Eclipses.ics"))
	require.NoError(t, err)
	body := string(data)

	assert.Contains(t, body, "VERSION:2.0\r\n")
	assert.Contains(t, body, "PRODID:"+prodID)
	assert.Contains(t, body, "DTSTAMP:20241231T235959Z\r\n")
	assert.Contains(t, body, "DTSTART:20240408T181800Z\r\n")
	assert.Contains(t, body, "DTEND:20240408T201800Z\r\n")
	assert.Contains(t, body, "SUMMARY:Solar Eclipse\r\n")
	assert.Contains(t, body, "UID:")
	assert.Contains(t, body, "@almagest\r\n")
}

func TestWriteAll_ZeroDurationOmitsDTEND(t *testing.T) {
	w, dir := newTestWriter(t)

	_, err := w.WriteAll([]almagest.Event{{
		Summary:  "Vernal Equinox (Spring)",
		Start:    time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC),
		Calendar: "Astro: Seasons",
	}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Astro_Seasons.ics"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "DTEND")
}

func TestWriteAll_EmptyCalendarGoesToMisc(t *testing.T) {
	w, dir := newTestWriter(t)

	paths, err := w.WriteAll([]almagest.Event{{
		Summary: "Stray", Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "Astro_Misc.ics"), paths[0])
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, "a\\, b\\; c", escapeText("a, b; c"))
	assert.Equal(t, "line1\\nline2", escapeText("line1\nline2"))
	assert.Equal(t, "back\\\\slash", escapeText("back\\slash"))
}

func TestWriteProperty_FoldsLongLines(t *testing.T) {
	var b strings.Builder
	writeProperty(&b, "DESCRIPTION", strings.Repeat("x", 200))
	out := b.String()

	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 76, "folded line too long: %q", line)
	}
	// Unfolding restores the original text.
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Equal(t, "DESCRIPTION:"+strings.Repeat("x", 200)+"\r\n", unfolded)
}

func TestWriteProperty_FoldRespectsUTF8(t *testing.T) {
	var b strings.Builder
	writeProperty(&b, "SUMMARY", strings.Repeat("é", 80))
	out := b.String()

	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	unfolded = strings.TrimSuffix(unfolded, "\r\n")
	assert.Equal(t, "SUMMARY:"+strings.Repeat("é", 80), unfolded)
	for _, line := range strings.Split(out, "\r\n") {
		assert.True(t, strings.HasPrefix(line, " ") || line == "" ||
			strings.HasPrefix(line, "SUMMARY"), "unexpected line %q", line)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Astro_Sun_Zodiac.ics", fileName("Astro: Sun Zodiac"))
	assert.Equal(t, "Astro_A-B.ics", fileName("Astro: A/B"))
}
