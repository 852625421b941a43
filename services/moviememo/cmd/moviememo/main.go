package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/movie-memo/internal/platform/analytics"
	"github.com/example/movie-memo/internal/platform/config"
	"github.com/example/movie-memo/internal/platform/httpserver"
	"github.com/example/movie-memo/internal/platform/logging"
	"github.com/example/movie-memo/internal/platform/natsconn"
	"github.com/example/movie-memo/internal/platform/run"
	"github.com/example/movie-memo/internal/platform/session"
	"github.com/example/movie-memo/services/moviememo/internal/activity"
	"github.com/example/movie-memo/services/moviememo/internal/comments"
	"github.com/example/movie-memo/services/moviememo/internal/handlers"
	"github.com/example/movie-memo/services/moviememo/internal/httpx"
	"github.com/example/movie-memo/services/moviememo/internal/ledger"
	"github.com/example/movie-memo/services/moviememo/internal/prefs"
	"github.com/example/movie-memo/services/moviememo/internal/store"
	mongostore "github.com/example/movie-memo/services/moviememo/internal/store/mongo"
	"github.com/example/movie-memo/services/moviememo/internal/tmdb"
)

// cacheInvalidateSubject carries catalog cache eviction messages; an
// empty or "ALL" body flushes every cached response.
const cacheInvalidateSubject = "moviememo.cache.invalidate"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Comment store: mongo when configured, in-memory otherwise.
	var commentStore store.CommentStore
	var readyFunc func() error
	if cfg.MongoURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ms, err := mongostore.New(ctx, cfg.MongoURL)
		cancel()
		if err != nil {
			log.Error("connect mongo", zap.Error(err))
			run.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ms.Close(ctx)
		}()
		commentStore = ms
		readyFunc = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return ms.Ping(ctx)
		}
	} else {
		if cfg.IsProd() {
			log.Error("MONGO_URL is required in production")
			run.Exit(1)
		}
		log.Warn("no MONGO_URL set, using in-memory comment store")
		commentStore = store.NewInMemoryCommentStore()
	}

	likeLedger, err := ledger.New(cfg.LedgerBackend, cfg.RedisURL, cfg.DatabaseURL, cfg.IsProd())
	if err != nil {
		log.Error("init like ledger", zap.Error(err))
		run.Exit(1)
	}

	prefStore := prefs.New(cfg.RedisURL)

	// NATS is optional: without it analytics become no-ops and the
	// response cache loses remote invalidation.
	var events *analytics.Publisher
	var cache handlers.Cache
	if cfg.NATSURL != "" {
		nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL, Name: cfg.ServiceName})
		if err != nil {
			log.Error("connect nats", zap.Error(err))
			run.Exit(1)
		}
		defer nc.Close()
		js, err := nc.JetStream()
		if err != nil {
			log.Error("init jetstream", zap.Error(err))
			run.Exit(1)
		}
		events = analytics.New(js, log)
		cache = handlers.NewTTLCache(cfg.CacheTTLSec, nc, cacheInvalidateSubject)
	} else {
		log.Warn("no NATS_URL set, analytics disabled")
		cache = handlers.NewTTLCache(cfg.CacheTTLSec, nil, "")
	}

	catalog := tmdb.New(cfg.TMDB)
	commentsSvc := comments.NewService(commentStore, likeLedger, events)
	feed := activity.NewFeed(commentStore, catalog, log)
	sessions := session.Manager{Secret: []byte(cfg.SessionSecret)}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: readyFunc})

	readLimit := httpx.NewRateLimiter(20, 40)
	writeLimit := httpx.NewRateLimiter(2, 5)

	r.Post("/v1/session", handlers.CreateSession(sessions))

	r.Group(func(r chi.Router) {
		r.Use(session.OptionalClient(sessions))
		r.Use(readLimit.Middleware)
		r.Get("/v1/movies/search", handlers.SearchMovies(catalog, cache, events))
		r.Get("/v1/movies/suggest", handlers.SuggestMovies(catalog, cache))
		r.Get("/v1/movies/{movie_id}", handlers.GetMovie(catalog, cache, events))
		r.Get("/v1/movies/{movie_id}/providers", handlers.GetWatchProviders(catalog, cache))
		r.Get("/v1/movies/{movie_id}/comments", handlers.ListComments(commentsSvc))
		r.Get("/v1/activity/recent", handlers.RecentActivity(feed))
	})

	r.Group(func(r chi.Router) {
		r.Use(session.OptionalClient(sessions))
		r.Use(writeLimit.Middleware)
		r.Post("/v1/movies/{movie_id}/comments", handlers.PostComment(commentsSvc))
		r.Post("/v1/comments/{comment_id}/report", handlers.ReportComment(commentsSvc))
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequireClient(sessions))
		r.Use(writeLimit.Middleware)
		r.Post("/v1/comments/{comment_id}/like", handlers.LikeComment(commentsSvc))
		r.Get("/v1/prefs", handlers.GetPrefs(prefStore, log))
		r.Put("/v1/prefs", handlers.PutPrefs(prefStore, log))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
