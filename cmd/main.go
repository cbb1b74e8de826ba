package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/dtroode/scanportal-client/internal/backend"
	"github.com/dtroode/scanportal-client/internal/config"
	"github.com/dtroode/scanportal-client/internal/logger"
	"github.com/dtroode/scanportal-client/internal/model"
	"github.com/dtroode/scanportal-client/internal/portal"
	"github.com/dtroode/scanportal-client/internal/session"
	storage "github.com/dtroode/scanportal-client/internal/storage/minio"
	"github.com/dtroode/scanportal-client/internal/storage/local"
	"github.com/dtroode/scanportal-client/internal/token"
	filestore "github.com/dtroode/scanportal-client/internal/tokenstore/file"
	redisstore "github.com/dtroode/scanportal-client/internal/tokenstore/redis"
	"github.com/dtroode/scanportal-client/internal/upload"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// reportPrefix namespaces reports inside a shared bucket.
const reportPrefix = "reports/"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	name, args := os.Args[1], os.Args[2:]

	switch name {
	case "help", "-h", "--help":
		usage()
		return
	case "version":
		logAppVersion()
		return
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize client", "error", err)
	}
	defer a.Close()

	if err := a.run(ctx, name, args); err != nil {
		var rerr *portal.RouteError
		if errors.As(err, &rerr) {
			fmt.Fprintf(os.Stderr, "Not available: %s\n", describeDecision(rerr.Decision))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		a.Close()
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	session *session.Store
	portal  *portal.Portal
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	limiter := rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.RateBurst)
	client := backend.NewClient(cfg.API.BaseURL, cfg.API.Timeout, limiter, logger)

	tokens, err := a.tokenStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	artifacts, err := a.artifactStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.session = session.NewStore(client, tokens, token.NewJWT(), logger)
	pipeline := upload.NewPipeline(client, logger,
		upload.WithMaxBytes(cfg.Upload.MaxBytes),
		upload.WithPreviewMaxDim(cfg.Upload.PreviewMaxDimPx),
	)
	a.portal = portal.New(a.session, client, artifacts, pipeline, logger)
	a.closers = append(a.closers, func() error {
		a.portal.Close()
		return nil
	})

	a.session.Bootstrap(ctx)
	return a, nil
}

func (a *app) tokenStore() (model.TokenStore, error) {
	switch a.cfg.TokenStore.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr: a.cfg.TokenStore.RedisAddr,
			DB:   a.cfg.TokenStore.RedisDB,
		})
		a.closers = append(a.closers, rdb.Close)
		return redisstore.NewStore(rdb, a.cfg.TokenStore.RedisPrefix, 0), nil
	default:
		return filestore.NewStore(a.cfg.TokenStore.Dir), nil
	}
}

func (a *app) artifactStorage(ctx context.Context) (model.Storage, error) {
	switch a.cfg.Artifacts.Backend {
	case "minio":
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := storage.New(ctx, storage.Options{
			Endpoint:  a.cfg.Storage.Endpoint,
			AccessKey: a.cfg.Storage.AccessKey,
			SecretKey: a.cfg.Storage.SecretKey,
			Bucket:    a.cfg.Storage.Bucket,
			UseSSL:    a.cfg.Storage.UseSSL,
			Prefix:    reportPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize report storage: %w", err)
		}
		return client, nil
	default:
		return local.NewStorage(a.cfg.Artifacts.Dir), nil
	}
}

// Close releases everything newApp opened. It is safe to call twice.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", "error", err.Error())
		}
	}
	a.closers = nil
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: scanportal <command> [flags]

Commands:
  login      sign in (-email, -password, or -demo technician|dentist)
  logout     sign out and forget the stored token
  whoami     show the signed-in user and reachable routes
  demo       list demo accounts
  open       show what a route resolves to, e.g. "open /scans"
  dashboard  show statistics and recent activity (-watch to refresh)
  scans      list scans (-search, -region)
  pdf        download a scan report (-id, -force, -stdout)
  upload     upload a scan image (-file, -name, -patient-id, -type, -region)
  version    print build information
`)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
