package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, cfg.StartYear, cfg.EndYear)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "ics", cfg.OutputMode)
	assert.Equal(t, "New York, USA", cfg.ObserverName)
	assert.InDelta(t, 40.7128, cfg.ObserverLat, 1e-9)
	assert.InDelta(t, -74.0060, cfg.ObserverLon, 1e-9)
	assert.True(t, cfg.EnableAspects)
	assert.True(t, cfg.EnableEclipses)
	assert.True(t, cfg.EnablePatterns)
	assert.Contains(t, cfg.AspectBodies, "jupiter")
	assert.NotContains(t, cfg.AspectBodies, "sun")
	assert.Contains(t, cfg.ZodiacBodies, "sun")
	assert.Equal(t, []string{"sun", "moon"}, cfg.AlmanacBodies)
	assert.InDelta(t, 1.0, cfg.AspectOrb, 1e-9)

	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFileNoEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().OutputMode, cfg.OutputMode)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almagest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
start_year: 2024
end_year: 2025
output_mode: json
observer_name: "Reykjavik, Iceland"
observer_lat: 64.1466
observer_lon: -21.9426
enable_almanac: false
aspect_orb: 2.5
almanac_bodies:
  - sun
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2024, cfg.StartYear)
	assert.Equal(t, 2025, cfg.EndYear)
	assert.Equal(t, "json", cfg.OutputMode)
	assert.Equal(t, "Reykjavik, Iceland", cfg.ObserverName)
	assert.InDelta(t, 64.1466, cfg.ObserverLat, 1e-9)
	assert.False(t, cfg.EnableAlmanac)
	assert.InDelta(t, 2.5, cfg.AspectOrb, 1e-9)
	assert.Equal(t, []string{"sun"}, cfg.AlmanacBodies)

	// Keys the file omits keep their defaults.
	assert.True(t, cfg.EnableAspects)
	assert.Equal(t, "calendars", cfg.OutputDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almagest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_mode: json\naspect_orb: 2.0\n"), 0o600))

	t.Setenv("ALMAGEST_OUTPUT_MODE", "sqlite")
	t.Setenv("ALMAGEST_DATABASE_PATH", "/tmp/test.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.OutputMode)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.InDelta(t, 2.0, cfg.AspectOrb, 1e-9)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_mode: [unclosed\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad output mode", func(c *Config) { c.OutputMode = "csv" }, "output mode"},
		{"zero orb", func(c *Config) { c.AspectOrb = 0 }, "orb"},
		{"negative orb", func(c *Config) { c.AspectOrb = -1 }, "orb"},
		{"latitude out of range", func(c *Config) { c.ObserverLat = 91 }, "latitude"},
		{"longitude out of range", func(c *Config) { c.ObserverLon = -200 }, "longitude"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"reversed interval", func(c *Config) { c.StartYear = 2025; c.EndYear = 2024 }, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tc.want != "" {
				assert.Contains(t, err.Error(), tc.want)
			}
		})
	}
}

func TestObserverAndInterval(t *testing.T) {
	cfg := Default()
	cfg.StartYear, cfg.EndYear = 2024, 2026

	obs := cfg.Observer()
	assert.InDelta(t, cfg.ObserverLat, obs.Lat, 1e-9)
	assert.InDelta(t, cfg.ObserverLon, obs.Lon, 1e-9)

	iv := cfg.Interval()
	assert.Equal(t, 2024, iv.StartYear)
	assert.Equal(t, 2026, iv.EndYear)
}
