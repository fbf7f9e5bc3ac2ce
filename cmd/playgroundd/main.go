package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/devwithfarshi/ai-playground/internal/adapter"
	"github.com/devwithfarshi/ai-playground/internal/adapter/loopback"
	adapteropenai "github.com/devwithfarshi/ai-playground/internal/adapter/openai"
	"github.com/devwithfarshi/ai-playground/internal/config"
	"github.com/devwithfarshi/ai-playground/internal/httpserver"
	"github.com/devwithfarshi/ai-playground/internal/logging"
	"github.com/devwithfarshi/ai-playground/internal/metrics"
	"github.com/devwithfarshi/ai-playground/internal/modelmeta"
	"github.com/devwithfarshi/ai-playground/internal/version"
)

func main() {
	cfg, err := config.LoadRelayConfig(".")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	closer, err := logging.Setup("[playgroundd] ", cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
	if err != nil {
		log.Fatalf("init rotating log: %v", err)
	}
	defer closer.Close()

	log.Printf("AI Playground relay %s env=%s", version.Info(), cfg.Environment)

	catalog, err := modelmeta.LoadCatalog(cfg.ModelsFile, logging.Component("[playgroundd/models] "))
	if err != nil {
		log.Fatalf("load models catalog: %v", err)
	}
	log.Printf("models catalog source=%s models=%v", catalog.Source(), catalog.IDs())

	chatAdapter, err := buildAdapter(cfg)
	if err != nil {
		log.Fatalf("adapter init failed: %v", err)
	}
	log.Printf("provider adapter: %s", adapter.ProviderName(chatAdapter))

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		if recorder, err = metrics.NewRecorder(nil); err != nil {
			log.Fatalf("init metrics: %v", err)
		}
	}

	httpSrv := httpserver.New(chatAdapter, catalog, recorder)
	httpSrv.SetCORSOrigins(cfg.CORSOrigins)
	// Pass logger and level to HTTP server for debug logs
	httpSrv.SetLogger(cfg.LogLevel, logging.Component("[playgroundd/http] "))

	srv := &http.Server{
		Addr:        cfg.HTTPAddress,
		Handler:     httpSrv.Router(),
		ReadTimeout: 15 * time.Second,
		// streams may run for as long as the provider keeps generating
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("relay listening on %s", cfg.HTTPAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)
	<-sigs

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// buildAdapter selects the OpenAI adapter when a key is configured and the
// loopback adapter otherwise.
func buildAdapter(cfg config.RelayConfig) (adapter.ChatAdapter, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		log.Printf("no OpenAI API key configured; using loopback adapter")
		return loopback.New(), nil
	}
	return adapteropenai.New(adapteropenai.Config{
		APIKey:                cfg.OpenAIAPIKey,
		BaseURL:               cfg.OpenAIBaseURL,
		Organization:          cfg.OpenAIOrg,
		RequestTimeout:        cfg.RequestTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
	})
}
