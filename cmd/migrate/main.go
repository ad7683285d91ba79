package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	mongoMigration "studyhall/internal/migrations/mongo"
	"studyhall/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	var (
		timeout  time.Duration
		database string
	)

	flags := pflag.NewFlagSet(JobName, pflag.ContinueOnError)
	flags.DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the migration")
	flags.StringVar(&database, "database", "", "database to migrate (default: MONGO_DATABASE_NAME)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config.Load(JobName)
	if database != "" {
		cfg.MongoDatabaseName = database
	}
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName, "timeout", timeout)
	if err := mongoMigration.RunMigration(ctx, cfg.Database(), cfg.Log); err != nil {
		cfg.Log.Error("Migration failed", "error", err)
		cancel()
		cfg.GracefulShutdown()
		os.Exit(1)
	}
	cfg.Log.Info("Migration completed successfully")
}
