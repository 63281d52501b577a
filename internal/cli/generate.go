package cli

import (
	"context"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/config"
	"github.com/thurmanmarka/almagest/internal/detect"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/ics"
	"github.com/thurmanmarka/almagest/internal/store"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

func (c *GenerateCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.StartYear != 0 {
		cfg.StartYear = c.StartYear
	}
	if c.EndYear != 0 {
		cfg.EndYear = c.EndYear
	}
	if c.Output != "" {
		cfg.OutputMode = c.Output
	}
	if c.Workers != 0 {
		cfg.Workers = c.Workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := buildLogger(c.globals, cfg)
	ctx := context.Background()

	detectors := buildDetectors(cfg, log)
	workers := cfg.Workers
	if workers == 0 {
		workers = len(detectors)
	}

	log.Info(ctx, "starting generation",
		logger.Int("start_year", cfg.StartYear),
		logger.Int("end_year", cfg.EndYear),
		logger.Int("detectors", len(detectors)),
		logger.Int("workers", workers))

	events, err := detect.NewRunner(workers, log).Run(ctx, detectors, cfg.Interval())
	if err != nil {
		return fmt.Errorf("run detectors: %w", err)
	}
	log.Info(ctx, "generation complete", logger.Int("events", len(events)))

	return export(ctx, cfg, log, events)
}

// buildDetectors assembles the detector set from the feature toggles.
func buildDetectors(cfg *config.Config, log logger.Logger) []detect.Detector {
	var detectors []detect.Detector
	if cfg.EnableAspects {
		detectors = append(detectors, detect.NewAspectDetector(cfg.AspectBodies, cfg.Aspects, cfg.AspectOrb, ephem.Geocentric, log))
	}
	if cfg.EnableHelioAspects {
		detectors = append(detectors, detect.NewAspectDetector(cfg.AspectBodies, cfg.Aspects, cfg.AspectOrb, ephem.Heliocentric, log))
	}
	if cfg.EnableZodiac {
		detectors = append(detectors, detect.NewZodiacDetector(cfg.ZodiacBodies, log))
	}
	if cfg.EnableRetrograde {
		detectors = append(detectors, detect.NewRetrogradeDetector(cfg.RetrogradePlanets, log))
	}
	if cfg.EnableMoonFeatures {
		detectors = append(detectors, detect.NewMoonFeatureDetector(log))
	}
	if cfg.EnableMoonPhases {
		detectors = append(detectors, detect.NewMoonPhaseDetector(log))
	}
	if cfg.EnableEclipses {
		detectors = append(detectors, detect.NewEclipseDetector(log))
	}
	if cfg.EnableSeasons {
		detectors = append(detectors, detect.NewSeasonDetector(log))
	}
	if cfg.EnableAlmanac {
		detectors = append(detectors, detect.NewAlmanacDetector(cfg.AlmanacBodies, cfg.ObserverName, cfg.Observer(), log))
	}
	if cfg.EnableProgress {
		detectors = append(detectors, detect.NewYearProgressDetector(log))
	}
	if cfg.EnablePatterns {
		detectors = append(detectors, detect.NewPatternDetector(cfg.AspectBodies, cfg.AspectOrb, log))
	}
	return detectors
}

func export(ctx context.Context, cfg *config.Config, log logger.Logger, events []almagest.Event) error {
	switch cfg.OutputMode {
	case "ics":
		paths, err := ics.NewWriter(cfg.OutputDir).WriteAll(events)
		if err != nil {
			return fmt.Errorf("write calendars: %w", err)
		}
		log.Info(ctx, "calendars written",
			logger.Int("files", len(paths)), logger.String("dir", cfg.OutputDir))
		return nil

	case "json":
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)

	case "sqlite":
		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()
		n, err := st.SaveEvents(ctx, events)
		if err != nil {
			return fmt.Errorf("save events: %w", err)
		}
		log.Info(ctx, "events archived",
			logger.Int("written", int(n)), logger.String("path", cfg.DatabasePath))
		return nil

	default:
		return fmt.Errorf("unknown output mode %q", cfg.OutputMode)
	}
}
