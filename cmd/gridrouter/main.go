package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "lintang/gridrouter/docs"
	"lintang/gridrouter/pkg/config"
	"lintang/gridrouter/pkg/kv"
	"lintang/gridrouter/pkg/server/rest"
	"lintang/gridrouter/pkg/server/rest/service"
	"lintang/gridrouter/pkg/terrain"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

//	@title			gridrouter lintangbs API
//	@version		1.0
//	@description	incremental time-sliced A* routing engine over terrain grids

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		stop()
		log.Fatal(err)
	}
}

// run jalankan server sampai ctx selesai atau server error. Pebble selalu di-close sebelum return.
func run(ctx context.Context, args []string) (err error) {
	cfg, err := config.Load(".env", args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	db, err := pebble.Open(cfg.DBDir, &pebble.Options{})
	if err != nil {
		return err
	}
	kvDB := kv.NewKVDB(db, cfg.Workers)
	defer func() {
		if closeErr := kvDB.Close(); closeErr != nil {
			logger.Error("closing pebble", "err", closeErr)
			err = errors.Join(err, closeErr)
		}
	}()

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	solverSvc := service.NewSolverService(kvDB, logger, m, service.Options{
		DefaultBudget: cfg.DefaultBudget,
		MaxBudget:     cfg.MaxBudget,
		Workers:       cfg.Workers,
	})

	for _, path := range cfg.TerrainFiles {
		name, g, err := terrain.LoadFile(path)
		if err != nil {
			return err
		}
		if err := solverSvc.RegisterTerrain(ctx, name, g); err != nil {
			return err
		}
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(cfg.SwaggerURL), //The url pointing to API definition
	))

	rest.SolverRouter(r, solverSvc, m)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", cfg.ListenAddr, "terrains", len(cfg.TerrainFiles), "workers", cfg.Workers)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
	return nil
}
