package cli

// GlobalFlags holds flags shared by every subcommand.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to YAML config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// GenerateCommand runs the detectors and exports events.
type GenerateCommand struct {
	StartYear int    `long:"start-year" description:"First year to generate (overrides config)"`
	EndYear   int    `long:"end-year" description:"Last year to generate (overrides config)"`
	Output    string `long:"output" description:"Output mode: ics | json | sqlite (overrides config)"`
	Workers   int    `long:"workers" description:"Detector pool size (overrides config)"`

	globals *GlobalFlags
	version string
}

// ListCommand lists archived events with filters.
type ListCommand struct {
	Kind     string `long:"kind" description:"Filter by event kind (e.g. aspect, season)"`
	Calendar string `long:"calendar" description:"Filter by calendar name"`
	Year     int    `long:"year" description:"Only events starting in this year"`
	Limit    int    `long:"limit" description:"Maximum results" default:"50"`

	globals *GlobalFlags
	version string
}

// StatsCommand shows archive counts and bounds.
type StatsCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand deletes archived events in a year range.
type PurgeCommand struct {
	StartYear int  `long:"start-year" description:"First year to purge (required)" required:"true"`
	EndYear   int  `long:"end-year" description:"Last year to purge (required)" required:"true"`
	Yes       bool `long:"yes" description:"Required flag to confirm deletion"`

	globals *GlobalFlags
	version string
}
