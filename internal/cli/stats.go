package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/store"
)

func (c *StatsCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Archive: %s\n", cfg.DatabasePath)
	fmt.Printf("Total events: %d\n", stats.TotalEvents)
	if stats.TotalEvents > 0 {
		fmt.Printf("Range: %s to %s\n",
			stats.Earliest.UTC().Format("2006-01-02"),
			stats.Latest.UTC().Format("2006-01-02"))
	}

	kinds := make([]string, 0, len(stats.ByKind))
	for k := range stats.ByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-16s %d\n", k, stats.ByKind[almagest.Kind(k)])
	}
	return nil
}
