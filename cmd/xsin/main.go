package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "xsin",
		Usage:   "chat-platform automation daemon (moderation, leveling, reminders, trivia)",
		Version: versioninfo.Short(),
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the daemon",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "database connection string for user profiles",
			Value:   "sqlite://data/xsin/xsin.db",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL; enables reminder persistence and the redis member cache",
			EnvVars: []string{"REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3989",
			EnvVars: []string{"XSIN_METRICS_LISTEN"},
		},
		&cli.DurationFlag{
			Name:    "reminder-sweep-interval",
			Usage:   "period between reminder sweep runs",
			Value:   5 * time.Second,
			EnvVars: []string{"REMINDER_SWEEP_INTERVAL"},
		},
		&cli.DurationFlag{
			Name:    "trivia-timeout",
			Usage:   "default bound on waiting for a trivia reply",
			Value:   30 * time.Second,
			EnvVars: []string{"TRIVIA_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "admin-webhook-url",
			Usage:   "incoming-webhook URL for enacted moderation verdicts",
			EnvVars: []string{"ADMIN_WEBHOOK_URL"},
		},
		&cli.StringFlag{
			Name:    "welcome-channel",
			Usage:   "channel id for welcome messages on member join",
			EnvVars: []string{"WELCOME_CHANNEL"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		db, err := setupDatabase(cctx.String("database-url"))
		if err != nil {
			return err
		}

		srv, err := NewServer(
			db,
			Config{
				Logger:          logger,
				RedisURL:        cctx.String("redis-url"),
				SweepInterval:   cctx.Duration("reminder-sweep-interval"),
				TriviaTimeout:   cctx.Duration("trivia-timeout"),
				AdminWebhookURL: cctx.String("admin-webhook-url"),
				WelcomeChannel:  cctx.String("welcome-channel"),
			},
		)
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("failed to run automation daemon: %w", err)
		}
		return nil
	},
}
