package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	config "github.com/Keoroanthony/go-foodorders/configs"
	"github.com/Keoroanthony/go-foodorders/internal/auth"
	"github.com/Keoroanthony/go-foodorders/internal/catalog"
	"github.com/Keoroanthony/go-foodorders/internal/db"
	"github.com/Keoroanthony/go-foodorders/internal/handlers"
	"github.com/Keoroanthony/go-foodorders/internal/metrics"
	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/notifier"
	"github.com/Keoroanthony/go-foodorders/internal/orders"
	"github.com/Keoroanthony/go-foodorders/internal/session"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

func main() {
	if err := config.LoadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		logrus.WithError(err).Fatal("failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := newLogger(cfg.App)

	ctx := context.Background()

	// ── storage ──
	kv, closeStore, err := db.NewStore(ctx, cfg.Storage, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open storage")
	}
	defer closeStore()

	foods := catalog.NewStore(storage.NewCollection[models.Item](kv, storage.KeyFoods, log), log)
	orderSvc := orders.NewService(storage.NewCollection[models.Order](kv, storage.KeyOrders, log), log)

	if cfg.App.Seed {
		if _, err := foods.EnsureSeed(ctx, session.Anonymous(timeutil.System)); err != nil {
			log.WithError(err).Fatal("failed to seed catalog")
		}
	}
	if err := orderSvc.EnsureInitialized(ctx); err != nil {
		log.WithError(err).Fatal("failed to initialize orders")
	}

	// ── identity ──
	dir, err := auth.NewDirectory(auth.DefaultCredentials(), 0)
	if err != nil {
		log.WithError(err).Fatal("failed to build credential directory")
	}
	var oidcLogin *auth.OIDC
	if cfg.OIDC.Enabled() {
		if oidcLogin, err = auth.NewOIDC(ctx, cfg.OIDC, log); err != nil {
			log.WithError(err).Fatal("failed to init OIDC")
		}
	}

	limiter := auth.NewLoginLimiter(cfg.App.LoginRate)
	limiter.StartCleanup(ctx, time.Minute)

	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware())

	// ── session store ──
	store := cookie.NewStore([]byte(cfg.App.SessionSecret))
	r.Use(sessions.Sessions(auth.SessionName, store))

	handlers.New(handlers.Options{
		Store:        kv,
		Catalog:      foods,
		Orders:       orderSvc,
		Auth:         dir,
		Notifier:     buildNotifier(ctx, cfg, log),
		Clock:        timeutil.System,
		Logger:       log,
		OIDC:         oidcLogin,
		LoginLimiter: limiter,
	}).Register(r)

	log.WithFields(logrus.Fields{"addr": cfg.App.Addr, "storage": cfg.Storage.Driver}).Info("listening")
	if err := r.Run(cfg.App.Addr); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server stopped")
	}
}

func newLogger(cfg config.AppConfig) *logrus.Entry {
	l := logrus.New()
	if cfg.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if level >= logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return logrus.NewEntry(l).WithField("service", "foodorders")
}

// buildNotifier enables each channel that has credentials configured.
func buildNotifier(ctx context.Context, cfg config.Config, log *logrus.Entry) notifier.Notifier {
	var out notifier.Multi
	if cfg.Email.Enabled() {
		email, err := notifier.NewEmailNotifier(ctx, cfg.Email, log)
		if err != nil {
			log.WithError(err).Warn("email notifications disabled")
		} else {
			out = append(out, email)
		}
	}
	if cfg.AfricaTalking.Enabled() {
		out = append(out, notifier.NewSMSNotifier(cfg.AfricaTalking, &http.Client{Timeout: 10 * time.Second}, log))
	}
	return out
}
