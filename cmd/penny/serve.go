package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/penny-for-your-thoughts/internal/auth"
	"github.com/Veraticus/penny-for-your-thoughts/internal/chat"
	"github.com/Veraticus/penny-for-your-thoughts/internal/llm"
	"github.com/Veraticus/penny-for-your-thoughts/internal/receipt"
	"github.com/Veraticus/penny-for-your-thoughts/internal/server"
	"github.com/Veraticus/penny-for-your-thoughts/internal/session"
	"github.com/Veraticus/penny-for-your-thoughts/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Long: `Start the HTTP API server: user verification, expense/income/budget
management, the conversational income assistant, and receipt parsing.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	dbPath, err := databasePath()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("database ready", "path", dbPath)

	sessions, err := session.NewStore(session.Config{
		Backend:       viper.GetString("session.backend"),
		RedisAddr:     viper.GetString("session.redis_addr"),
		RedisPassword: viper.GetString("session.redis_password"),
		RedisDB:       viper.GetInt("session.redis_db"),
		TTL:           viper.GetDuration("session.ttl"),
	}, store.DB())
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}

	llmCfg, err := createLLMConfig()
	if err != nil {
		return err
	}
	client, err := llm.NewClient(llmCfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	extractor := llm.NewExtractor(client, llmCfg, slog.Default())
	defer extractor.Close()

	assistant := chat.NewAssistant(sessions, extractor, store, slog.Default())

	receipts := receipt.NewService(
		llm.NewReceiptParser(client, llmCfg, slog.Default()),
		llm.NewConverter(client),
		store,
		slog.Default(),
	)

	verifier, err := auth.NewGoogleVerifier(viper.GetString("auth.audience"))
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}

	limiter := server.NewRateLimiter(server.DefaultRateLimiterConfig())
	defer limiter.Stop()

	router := server.NewRouter(&server.RouterDeps{
		Store:       store,
		Verifier:    verifier,
		Assistant:   assistant,
		Receipts:    receipts,
		RateLimiter: limiter,
		Registry:    prometheus.NewRegistry(),
		Logger:      slog.Default(),
	})

	srv := &http.Server{
		Addr:         viper.GetString("server.addr"),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM round-trips are slow
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	case <-cmd.Context().Done():
	}

	slog.Info("shutting down API server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}
