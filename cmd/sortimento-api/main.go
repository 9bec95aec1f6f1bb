package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sortimento/internal/apis/ifood"
	"sortimento/internal/apis/osuper"
	"sortimento/internal/apis/tendaatacado"
	"sortimento/internal/apis/ubereats"
	"sortimento/internal/apis/vipcommerce"
	"sortimento/internal/apis/vtex"
	"sortimento/internal/auth"
	"sortimento/internal/bootstrap"
	"sortimento/internal/cache"
	"sortimento/internal/config"
	"sortimento/internal/httpserver"
	"sortimento/internal/logger"
	"sortimento/internal/metrics"
	"sortimento/internal/schema"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to the yaml settings file")
		profile    = flag.String("env", envOr("APP_ENV", "local"), "settings profile to load")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath, *profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddCaller: cfg.Logging.AddCaller,
		Env:       cfg.Env,
	})
	defer func() { _ = log.Sync() }()

	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalw("secrets", "err", err)
	}

	keys := auth.KeysFromEnv(secrets.APIKeyPrefix)
	if keys.Len() == 0 {
		log.Warnw("no api keys loaded, every request will be rejected",
			"prefix", secrets.APIKeyPrefix)
	}

	m := metrics.New()

	transport, err := bootstrap.BuildTransport(cfg, log, m)
	if err != nil {
		log.Fatalw("transport", "err", err)
	}

	checker := schema.New()
	store := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)

	vip, err := vipcommerce.New(vipcommerce.Options{
		Transport: transport,
		AuthToken: secrets.VipCommerceToken,
		Logger:    log,
		Checker:   checker,
	})
	if err != nil {
		log.Fatalw("vipcommerce", "err", err)
	}

	server := httpserver.New(httpserver.Options{
		Config:  cfg,
		Logger:  log,
		Keys:    keys,
		Cache:   store,
		Metrics: m,
		Ifood: ifood.New(ifood.Options{
			Transport:        transport,
			BaseURL:          cfg.Vendors.IfoodBaseURL,
			ViaCEPBaseURL:    cfg.Vendors.ViaCEPBaseURL,
			NominatimBaseURL: cfg.Vendors.NominatimBaseURL,
			Logger:           log,
			Checker:          checker,
		}),
		UberEats: ubereats.New(ubereats.Options{
			Transport: transport,
			BaseURL:   cfg.Vendors.UberEatsBaseURL,
			Logger:    log,
			Checker:   checker,
		}),
		TendaAtacado: tendaatacado.New(tendaatacado.Options{
			Transport: transport,
			BaseURL:   cfg.Vendors.TendaAtacadoBaseURL,
			Logger:    log,
			Checker:   checker,
		}),
		VipCommerce: vip,
		Osuper: osuper.New(osuper.Options{
			Transport:     transport,
			SearchBaseURL: cfg.Vendors.OsuperSearchBaseURL,
			Logger:        log,
			Checker:       checker,
		}),
		Vtex: vtex.New(vtex.Options{
			Transport: transport,
			Logger:    log,
			Checker:   checker,
		}),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infow("listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("serve", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("shutdown", "err", err)
	}
	log.Infow("stopped")
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
