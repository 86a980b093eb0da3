// README: Entry point; loads config, wires providers and services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tripbudget/internal/ai"
	"tripbudget/internal/config"
	httptransport "tripbudget/internal/http"
	"tripbudget/internal/infra"
	"tripbudget/internal/modules/aiusage"
	"tripbudget/internal/modules/attachment"
	"tripbudget/internal/modules/budget"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	gemini := ai.NewGeminiProvider(cfg.AI.Gemini.APIKey)
	defer func() { _ = gemini.Close() }()
	orchestrator := ai.NewOrchestrator(logger,
		providerOrDisabled(cfg.AI.OpenAI.Enabled(), ai.ProviderOpenAI, ai.NewOpenAIProvider(cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.BaseURL, httpClient)),
		providerOrDisabled(cfg.AI.Anthropic.Enabled(), ai.ProviderAnthropic, ai.NewAnthropicProvider(cfg.AI.Anthropic.APIKey, cfg.AI.Anthropic.BaseURL, httpClient)),
		providerOrDisabled(cfg.AI.Gemini.Enabled(), ai.ProviderGemini, gemini),
	)
	logger.Info("providers configured",
		zap.Bool("openai", cfg.AI.OpenAI.Enabled()),
		zap.Bool("anthropic", cfg.AI.Anthropic.Enabled()),
		zap.Bool("gemini", cfg.AI.Gemini.Enabled()),
	)

	usage, closeUsage := newUsage(ctx, cfg, logger)
	defer closeUsage()

	budgetSvc := budget.NewService(budget.ServiceDeps{
		Selector:  budget.NewSelector(cfg.Models, cfg.AI.Anthropic.Enabled()),
		Extractor: attachment.NewPDFExtractor(),
		Generator: orchestrator,
		Usage:     usage,
		Logger:    logger,
	})

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Budget:       budgetSvc,
		Logger:       logger,
		DeployTarget: cfg.HTTP.DeployTarget,
		StaticDir:    cfg.HTTP.StaticDir,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}
	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		logger.Fatal("listen", zap.String("addr", cfg.HTTP.Addr), zap.Error(err))
	}

	logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("target", cfg.HTTP.DeployTarget))
	// A walk may hold a request for one provider timeout per candidate; drain for at least one.
	if err := serve(ctx, server, ln, cfg.AI.Timeout+10*time.Second, logger); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}

// serve runs server on ln until ctx is done, then shuts it down and returns only
// after in-flight requests have finished or drainTimeout has passed.
func serve(ctx context.Context, server *http.Server, ln net.Listener, drainTimeout time.Duration, logger *zap.Logger) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}

func providerOrDisabled(enabled bool, kind ai.ProviderKind, p ai.Provider) ai.Provider {
	if !enabled {
		return ai.Disabled(kind)
	}
	return p
}

// newUsage connects the optional Postgres and Redis backends. A backend that
// fails to connect is logged and skipped; usage recording never blocks startup.
// The returned func closes whatever was opened.
func newUsage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*aiusage.Service, func()) {
	var (
		recorders []aiusage.Recorder
		closers   []func()
	)

	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Warn("usage ledger disabled", zap.Error(err))
		} else {
			closers = append(closers, dbPool.Close)
			store := aiusage.NewStore(dbPool)
			if err := store.EnsureSchema(ctx); err != nil {
				logger.Warn("usage ledger schema", zap.Error(err))
			}
			recorders = append(recorders, store)
		}
	}

	if cfg.Redis.Addr != "" {
		redisClient := infra.NewRedis(cfg.Redis.Addr)
		closers = append(closers, func() { _ = redisClient.Close() })
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("usage counters disabled", zap.Error(err))
		} else {
			recorders = append(recorders, aiusage.NewCounter(redisClient))
		}
	}

	return aiusage.NewService(logger, recorders...), func() {
		for _, c := range closers {
			c()
		}
	}
}
