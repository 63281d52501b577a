package cli

import (
	"context"
	"fmt"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/store"
)

func (c *PurgeCommand) Execute(args []string) error {
	if !c.Yes {
		return fmt.Errorf("purge is destructive; pass --yes to confirm")
	}

	iv := almagest.Interval{StartYear: c.StartYear, EndYear: c.EndYear}
	if err := iv.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.PurgeInterval(context.Background(), iv)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d events from %d-%d\n", n, c.StartYear, c.EndYear)
	return nil
}
