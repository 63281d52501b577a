package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/almagest"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "almagest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvents() []almagest.Event {
	base := time.Date(2024, 4, 8, 18, 18, 0, 0, time.UTC)
	return []almagest.Event{
		{
			Kind:         almagest.KindSolarEclipse,
			Summary:      "Solar Eclipse",
			Start:        base,
			Duration:     2*time.Hour + 30*time.Minute,
			Description:  "Solar Eclipse. Max separation: 0.012 deg. Duration: 150 mins.",
			Participants: []string{"sun", "moon"},
			Calendar:     "Astro: Solar Eclipses",
		},
		{
			Kind:         almagest.KindSeason,
			Summary:      "Summer Solstice",
			Start:        time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC),
			Description:  "Summer Solstice. Exact moment.",
			Participants: []string{"sun"},
			Calendar:     "Astro: Seasons",
		},
		{
			Kind:         almagest.KindAspect,
			Summary:      "Conjunction: Jupiter - Uranus",
			Start:        time.Date(2024, 4, 19, 12, 0, 0, 0, time.UTC),
			Duration:     4 * 24 * time.Hour,
			Participants: []string{"jupiter", "uranus"},
			Calendar:     "Astro: Jupiter Geo",
		},
	}
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.TotalEvents)
	assert.Empty(t, st.ByKind)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almagest.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.SaveEvents(context.Background(), sampleEvents())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Migrations are idempotent across reopens.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	st, err := s2.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.TotalEvents)
}

func TestSaveEvents_Roundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.SaveEvents(ctx, sampleEvents())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	got, err := s.ListEvents(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by start time.
	assert.Equal(t, "Conjunction: Jupiter - Uranus", got[0].Summary)
	assert.Equal(t, "Solar Eclipse", got[1].Summary)
	assert.Equal(t, "Summer Solstice", got[2].Summary)

	ecl := got[1]
	assert.Equal(t, almagest.KindSolarEclipse, ecl.Kind)
	assert.Equal(t, 2*time.Hour+30*time.Minute, ecl.Duration)
	assert.Equal(t, []string{"sun", "moon"}, ecl.Participants)
	assert.Equal(t, "Astro: Solar Eclipses", ecl.Calendar)
	assert.True(t, ecl.Start.Equal(time.Date(2024, 4, 8, 18, 18, 0, 0, time.UTC)))

	// Zero-duration event comes back without participants mangled.
	assert.Zero(t, got[2].Duration)
	assert.Equal(t, []string{"sun"}, got[2].Participants)
}

func TestSaveEvents_UpsertRefreshesRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events := sampleEvents()
	_, err := s.SaveEvents(ctx, events)
	require.NoError(t, err)

	// Same identity and start, refined duration and description.
	events[0].Duration = 3 * time.Hour
	events[0].Description = "Solar Eclipse. Max separation: 0.010 deg. Duration: 180 mins."
	_, err = s.SaveEvents(ctx, events[:1])
	require.NoError(t, err)

	got, err := s.ListEvents(ctx, Query{Kind: almagest.KindSolarEclipse})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3*time.Hour, got[0].Duration)
	assert.Contains(t, got[0].Description, "180 mins")
}

func TestListEvents_Filters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.SaveEvents(ctx, sampleEvents())
	require.NoError(t, err)

	byKind, err := s.ListEvents(ctx, Query{Kind: almagest.KindSeason})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "Summer Solstice", byKind[0].Summary)

	byCal, err := s.ListEvents(ctx, Query{Calendar: "Astro: Jupiter Geo"})
	require.NoError(t, err)
	require.Len(t, byCal, 1)

	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	after, err := s.ListEvents(ctx, Query{After: may})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, almagest.KindSeason, after[0].Kind)

	before, err := s.ListEvents(ctx, Query{Before: may})
	require.NoError(t, err)
	assert.Len(t, before, 2)

	limited, err := s.ListEvents(ctx, Query{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Conjunction: Jupiter - Uranus", limited[0].Summary)

	none, err := s.ListEvents(ctx, Query{Kind: almagest.KindMoonPhase})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPurgeInterval(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events := sampleEvents()
	events = append(events, almagest.Event{
		Kind:     almagest.KindSeason,
		Summary:  "Vernal Equinox (Spring)",
		Start:    time.Date(2025, 3, 20, 9, 1, 0, 0, time.UTC),
		Calendar: "Astro: Seasons",
	})
	_, err := s.SaveEvents(ctx, events)
	require.NoError(t, err)

	removed, err := s.PurgeInterval(ctx, almagest.Years(2024, 2024))
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	left, err := s.ListEvents(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, 2025, left[0].Start.Year())
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.SaveEvents(ctx, sampleEvents())
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.TotalEvents)
	assert.EqualValues(t, 1, st.ByKind[almagest.KindSolarEclipse])
	assert.EqualValues(t, 1, st.ByKind[almagest.KindSeason])
	assert.EqualValues(t, 1, st.ByKind[almagest.KindAspect])
	assert.Equal(t, 2024, st.Earliest.Year())
	assert.True(t, st.Latest.After(st.Earliest))
}
