package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/store"
)

func (c *ListCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	q := store.Query{
		Kind:     almagest.Kind(c.Kind),
		Calendar: c.Calendar,
		Limit:    c.Limit,
	}
	if c.Year != 0 {
		q.After = time.Date(c.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		q.Before = time.Date(c.Year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	events, err := st.ListEvents(context.Background(), q)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	for _, ev := range events {
		line := fmt.Sprintf("%s  %-14s  %s", ev.Start.UTC().Format("2006-01-02 15:04"), ev.Kind, ev.Summary)
		if ev.Duration > 0 {
			line += fmt.Sprintf("  (%s)", ev.Duration.Round(time.Minute))
		}
		fmt.Println(line)
	}
	fmt.Printf("%d events\n", len(events))
	return nil
}
