// cmd/web/main.go
//
// Sitegate: HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load config (.env → conf/global.yaml → SITEGATE_* env, Vault refs).
//
//  2. Start the daily rotating logger (tees to console in a TTY).
//
//  3. Open the content store: MySQL, or the YAML fixture repository when
//     `database.fixtures` is set.
//
//  4. Load shared form definitions and build the document render cache.
//
//  5. Build the tenant resolver behind its idle-TTL cache, the router,
//     and the prerender pipeline.
//
//  6. Serve until SIGINT/SIGTERM, then drain in-flight requests.
//
// Large comment blocks are framed by blank "//" lines; inline comments use
// a single "//".
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/yanizio/sitegate/internal/config"
	"github.com/yanizio/sitegate/internal/database"
	"github.com/yanizio/sitegate/internal/document"
	"github.com/yanizio/sitegate/internal/form"
	"github.com/yanizio/sitegate/internal/logger"
	"github.com/yanizio/sitegate/internal/prerender"
	"github.com/yanizio/sitegate/internal/requestinfo"
	"github.com/yanizio/sitegate/internal/routing"
	"github.com/yanizio/sitegate/internal/server"
	"github.com/yanizio/sitegate/internal/site"
	"github.com/yanizio/sitegate/internal/tenant"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logDir := cfg.Log.Dir
	if logDir != "" && !filepath.IsAbs(logDir) {
		logDir = filepath.Join(cfg.Paths.Root, logDir)
	}
	logOut, err := logger.New(logDir, runningInTTY(), cfg.Log.Level)
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	if cfg.Geo.DatabasePath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.DatabasePath); err != nil {
			logOut.Warnw("geoip disabled", "path", cfg.Geo.DatabasePath, "err", err)
		}
		defer requestinfo.CloseGeo()
	}

	//
	// ── 3.  Content store ───────────────────────────────────────────────
	//
	var repo site.Repository
	if cfg.Database.Fixtures != "" {
		mem, err := site.LoadFixtures(cfg.Database.Fixtures)
		if err != nil {
			logOut.Fatalw("load fixtures", "err", err)
		}
		logOut.Infow("fixture store loaded",
			"file", cfg.Database.Fixtures,
			"domains", len(mem.Domains),
			"stores", len(mem.Stores))
		repo = mem
	} else {
		logOut.Info("connecting to content DB …")
		db, err := database.Open(ctx, cfg.Database.DSN, cfg.Database.MaxOpen, cfg.Database.MaxIdle)
		if err != nil {
			logOut.Fatalw("connect content DB", "err", err)
		}
		defer db.Close()
		logOut.Info("content DB online")
		repo = site.NewSQLRepository(db)
	}

	//
	// ── 4.  Forms + documents ───────────────────────────────────────────
	//
	forms := form.NewRegistry()
	if err := forms.LoadDir(cfg.Forms.Dir); err != nil {
		logOut.Fatalw("load forms", "dir", cfg.Forms.Dir, "err", err)
	}
	docs := document.NewCache(document.NewRenderer(forms), cfg.Render.DocumentCacheSize)

	//
	// ── 5.  Tenants, routing, pipeline ──────────────────────────────────
	//
	resolver := tenant.NewResolver(repo, tenant.Options{
		SystemDomains:  cfg.Render.SystemDomains,
		LocalhostAlias: cfg.Database.LocalhostAlias,
		Timeout:        cfg.Render.LookupTimeout,
	})
	tenants := tenant.NewCache(resolver, cfg.Tenant.CacheTTL, cfg.Tenant.CacheMaxAge, cfg.Tenant.CacheMaxEntries)
	defer tenants.Close()

	router := routing.New(repo, cfg.Routes, cfg.Render.LookupTimeout)
	pipe := prerender.NewPipeline(tenants, repo, router, docs, renderOptions(cfg.Render))

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, prerender.NewHandler(pipe, cfg.HTTP.ForceHTTPS), server.Timeouts{
		Read:     cfg.HTTP.ReadTimeout,
		Write:    cfg.HTTP.WriteTimeout,
		Idle:     cfg.HTTP.IdleTimeout,
		Shutdown: cfg.HTTP.ShutdownTimeout,
	})
	if err := server.Run(ctx, srv, cfg.HTTP.ShutdownTimeout); err != nil {
		zap.L().Fatal("http server", zap.Error(err))
	}
	logOut.Info("bye")
}

// renderOptions maps the render section onto pipeline options.
func renderOptions(r config.Render) prerender.Options {
	return prerender.Options{
		SystemDomains:        r.SystemDomains,
		AppOrigin:            r.AppOrigin,
		PassThrough:          r.PassThrough,
		CustomDomainVisitors: r.CustomDomainVisitors,
		UnknownDomain:        r.UnknownDomain,
		LookupTimeout:        r.LookupTimeout,
		CacheControl:         r.CacheControl,
		DiagnosticHeader:     r.DiagnosticHeader,
		DiagnosticToken:      r.DiagnosticToken,
		DiagnosticQuery:      r.DiagnosticQuery,
		DebugHeaders:         r.DebugHeaders,
		FullBody:             r.FullBody,
		DefaultDescription:   r.DefaultDescription,
		DefaultLocale:        r.DefaultLocale,
	}
}
