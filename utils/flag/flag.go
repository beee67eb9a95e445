package flag

import (
	"flag"
)

var (
	ServiceName = flag.String("service_name", "fritter_backend", "name of the running service, used as log app name")
	CronSpec    = flag.String("cron", "@every 5m", "schedule of the periodic feed refresh")
	MigrateOnly = flag.Bool("migrate_only", false, "run database migration and exit")
)

// ParseFlags parses command line flags once. Binaries call it at the top of main.
func ParseFlags() {
	if !flag.Parsed() {
		flag.Parse()
	}
}
