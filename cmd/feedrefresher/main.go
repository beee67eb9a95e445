package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rnr-capital/fritter-backend/core"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/feed"
	"github.com/rnr-capital/fritter-backend/store"
	"github.com/rnr-capital/fritter-backend/utils"
	"github.com/rnr-capital/fritter-backend/utils/dotenv"
	. "github.com/rnr-capital/fritter-backend/utils/flag"
	. "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Minute

func init() {
	LogV2.Info("feed refresher initialized")
}

func cleanup() {
	LogV2.Info("feed refresher shutdown")
}

func main() {
	ParseFlags()

	defer cleanup()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		LogV2.Fatalf("fail to connect to database: %v", err)
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		LogV2.Fatalf("fail to migrate database: %v", err)
	}
	if *MigrateOnly {
		return
	}

	statsdClient, err := utils.NewStatsdClient(utils.GetEnv("STATSD_ADDR", ""))
	if err != nil {
		LogV2.Fatalf("fail to create statsd client: %v", err)
	}
	bus := events.NewEventBus(false)
	defer bus.Close()
	config := core.Config{
		Metrics:   statsdClient,
		Publisher: events.NewWatermillPublisher(bus),
	}
	// without redis feeds are still served from the database
	if cache, err := utils.GetRedisFeedStore(); err != nil {
		LogV2.Warnf("feed cache disabled: %v", err)
	} else {
		config.Cache = cache
	}
	c := core.New(store.NewGormStore(db), config)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(*CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		start := time.Now()
		n, err := c.Materializer().RefreshAll(ctx)
		if err != nil {
			LogV2.WithField("service", *ServiceName).Errorf("feed refresh incomplete after %d feeds: %v", n, err)
			return
		}
		LogV2.WithField("service", *ServiceName).Infof("refreshed %d feeds in %v", n, time.Since(start))
	})
	if err != nil {
		LogV2.Fatalf("invalid cron spec %q: %v", *CronSpec, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	modules := []events.Module{
		feed.NewInvalidator("feed_invalidator", c.Materializer(), c.Index(), bus),
		events.NewReporter(events.ReporterConfig{Name: "graph_event_reporter"}, statsdClient, bus),
	}
	modulesDone := make(chan error, 1)
	go func() { modulesDone <- events.RunModules(ctx, modules...) }()

	scheduler.Start()
	LogV2.Infof("feed refresher scheduled with %s", *CronSpec)

	select {
	case <-ctx.Done():
		<-scheduler.Stop().Done()
		if err := <-modulesDone; err != nil {
			LogV2.Errorf("modules stopped with error: %v", err)
		}
	case err := <-modulesDone:
		<-scheduler.Stop().Done()
		LogV2.Fatalf("modules stopped unexpectedly: %v", err)
	}
}
