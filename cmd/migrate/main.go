// Command migrate manages the applications, role and blacklist schema.
//
//	migrate up              apply pending SQL migrations
//	migrate auto            run GORM AutoMigrate regardless of DB_SCHEMA_MODE
//	migrate status          list applied and pending migrations
//	migrate down <version>  revert one migration
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"text/tabwriter"

	"guildapply/internal/config"
	"guildapply/internal/database"
	"guildapply/internal/middleware"

	"gorm.io/gorm"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate <up|auto|status|down> [version]")
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flag.Args()); err != nil {
		middleware.Logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return err
	}
	migrator := database.NewMigrator(db, database.Migrations())

	switch args[0] {
	case "up":
		n, err := migrator.Up(ctx)
		if err != nil {
			return err
		}
		middleware.Logger.Info("migrations applied", slog.Int("count", n))
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return err
		}
		middleware.Logger.Info("automigrate complete")
	case "status":
		return printStatus(ctx, cfg, db)
	case "down":
		if len(args) < 2 {
			return fmt.Errorf("down needs a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		if err := migrator.Down(ctx, version); err != nil {
			return err
		}
		middleware.Logger.Info("migration reverted", slog.Int("version", version))
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func printStatus(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("mode=%s env=%s sql=%t auto=%t\n", status.Mode, status.Environment, status.RunSQL, status.RunAuto)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tSTATE")
	for _, m := range database.Migrations() {
		state := "pending"
		if slices.Contains(status.Applied, m.Version) {
			state = "applied"
		}
		fmt.Fprintf(w, "%s\t%s\n", m.ID(), state)
	}
	return w.Flush()
}
