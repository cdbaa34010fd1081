package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/examprep/internal/api"
	"github.com/dgallion1/examprep/internal/completion"
	"github.com/dgallion1/examprep/internal/config"
	"github.com/dgallion1/examprep/internal/pipeline"
	"github.com/dgallion1/examprep/internal/tutor"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the completion service. Without one, topic prediction runs
	// on the local fallback and the tutor endpoints report 503.
	var llm *completion.Client
	var closeProvider func()
	if err := cfg.Validate(); err != nil {
		log.Warn("completion service disabled", "error", err)
	} else {
		provider, closeFn, err := newProvider(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize completion provider", "provider", cfg.LLMProvider, "error", err)
			os.Exit(1)
		}
		closeProvider = closeFn
		llm = completion.NewClient(provider, cfg.Model(), cfg.CallTimeout, completion.NewLLMStats(cfg.StatsWindow), log)
	}

	// Initialize pipeline.
	topics := pipeline.NewOrchestrator(llm, pipeline.OptionsFromConfig(cfg), log)
	runner := pipeline.NewRunner(cfg, topics, log)
	runner.Start(ctx)

	var tutorLLM tutor.Completer
	if llm != nil {
		tutorLLM = llm
	}
	tut := tutor.NewService(tutorLLM, cfg.CallTimeout, log)

	// Initialize HTTP server.
	srv := api.NewServer(topics, runner, tut, llm, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.PipelineBudget + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown. HTTP stops first so no handler can submit to a
	// stopped runner.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		runner.Stop()

		if closeProvider != nil {
			closeProvider()
		}
	}()

	log.Info("starting examprep", "port", cfg.Port, "provider", cfg.LLMProvider, "ai_enabled", llm != nil)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}

func newProvider(ctx context.Context, cfg config.Config) (completion.Provider, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		p := completion.NewAnthropicProvider(cfg.AnthropicAPIKey)
		return p, p.Close, nil
	default:
		p, err := completion.NewGeminiProvider(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {}, nil
	}
}
