package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/blitzboy11/Xsin/gateway"
	"github.com/blitzboy11/Xsin/leveling"
	"github.com/blitzboy11/Xsin/membercache"
	"github.com/blitzboy11/Xsin/moderation"
	"github.com/blitzboy11/Xsin/notify"
	"github.com/blitzboy11/Xsin/platform"
	"github.com/blitzboy11/Xsin/profilestore"
	"github.com/blitzboy11/Xsin/reminder"
	"github.com/blitzboy11/Xsin/trivia"
)

type Server struct {
	logger     *slog.Logger
	client     platform.Client
	dispatcher *gateway.Dispatcher
	leveling   *leveling.Engine
	scheduler  *reminder.Scheduler
	trivia     *trivia.Manager
}

type Config struct {
	Logger          *slog.Logger
	RedisURL        string
	SweepInterval   time.Duration
	TriviaTimeout   time.Duration
	AdminWebhookURL string
	WelcomeChannel  string
}

func NewServer(db *gorm.DB, config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	// the gateway connection is owned by the embedding platform layer;
	// until one attaches, outbound actions go to the log
	var client platform.Client = &platform.LogClient{Logger: logger}

	var members membercache.Cache
	var rdb *redis.Client
	if config.RedisURL != "" {
		opt, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %v", err)
		}
		rdb = redis.NewClient(opt)
		// check redis connection
		if _, err := rdb.Ping(context.TODO()).Result(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %v", err)
		}

		mc, err := membercache.NewRedisCache(config.RedisURL, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("initializing redis member cache: %v", err)
		}
		members = mc
	} else {
		members = membercache.NewMemCache(5_000, 30*time.Minute)
	}

	profiles, err := profilestore.NewGormProfileStore(db)
	if err != nil {
		return nil, fmt.Errorf("initializing profile store: %v", err)
	}

	var notifier moderation.VerdictNotifier
	if config.AdminWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(logger, config.AdminWebhookURL)
	}

	pipeline := moderation.NewPipeline(logger, moderation.DefaultRules(), client, members)
	enforcer := &moderation.Enforcer{
		Logger:           logger,
		Pipeline:         pipeline,
		Client:           client,
		Notifier:         notifier,
		WelcomeChannelID: config.WelcomeChannel,
	}

	levels := leveling.NewEngine(logger, profiles, client)

	scheduler := reminder.NewScheduler(reminder.Config{
		Logger:        logger,
		Client:        client,
		Redis:         rdb,
		SweepInterval: config.SweepInterval,
	})

	sessions := trivia.NewManager(logger, client, config.TriviaTimeout)

	// registration order is load-bearing: moderation classifies first,
	// leveling grants xp, trivia routes replies. All three observe every
	// message event regardless of what the others do.
	dispatcher := gateway.NewDispatcher(logger)
	dispatcher.OnMessage("moderation", enforcer.HandleMessage)
	dispatcher.OnMessage("leveling", levels.HandleMessage)
	dispatcher.OnMessage("trivia", sessions.HandleMessage)
	dispatcher.OnJoin("moderation", enforcer.HandleJoin)

	s := &Server{
		logger:     logger,
		client:     client,
		dispatcher: dispatcher,
		leveling:   levels,
		scheduler:  scheduler,
		trivia:     sessions,
	}

	return s, nil
}

// Dispatcher is the entry point the platform gateway delivers events into.
func (s *Server) Dispatcher() *gateway.Dispatcher {
	return s.dispatcher
}

// Scheduler exposes reminder scheduling to the command layer.
func (s *Server) Scheduler() *reminder.Scheduler {
	return s.scheduler
}

// Trivia exposes session management to the command layer.
func (s *Server) Trivia() *trivia.Manager {
	return s.trivia
}

// Leveling exposes rank queries to the command layer.
func (s *Server) Leveling() *leveling.Engine {
	return s.leveling
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

// Run rehydrates persisted reminders and blocks on the sweep loop until ctx
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.scheduler.LoadPending(ctx); err != nil {
		// reminders scheduled this process still work
		s.logger.Error("rehydrating reminders failed", "err", err)
	}
	return s.scheduler.Run(ctx)
}
