package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"community/app/controllers"
	"community/app/identity"
	"community/app/outbox"
	"community/app/repositories"
	"community/app/repositories/mock"
	"community/app/routes"
	"community/app/services"
	"community/config"
)

const cliVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("community version %s\n", cliVersion)
	case "serve":
		serve()
	case "dispatch":
		runDispatcher()
	case "outbox":
		outboxCmd()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`community - social content service

Usage:
  community serve            Start the HTTP API with a background outbox dispatcher
  community dispatch         Run only the outbox dispatcher
  community outbox status    Show unpublished / dead-letter / stale outbox counts
  community outbox sweep     Delete published outbox entries past the retention age
  community version          Print the version
  community help             Show this help`)
}

func serve() {
	cfg := config.Load()
	slog.Info("starting community service", "addr", cfg.HTTPAddr, "db", cfg.DBPath)

	store, err := repositories.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	profiles := buildProfileCache(cfg, store)
	postRepo := repositories.NewBadgerPostRepository(store.DB())
	commentRepo := repositories.NewBadgerCommentRepository(store.DB())
	likeRepo := repositories.NewBadgerLikeRepository(store.DB())
	outboxRepo := repositories.NewBadgerOutboxRepository(store.DB())

	postService := services.NewPostService(postRepo, outboxRepo, store, profiles)
	commentService := services.NewCommentService(commentRepo, postRepo, outboxRepo, store, profiles)
	likeService := services.NewLikeService(likeRepo, postRepo, outboxRepo, store, profiles)

	router := routes.Setup(
		controllers.NewPostController(postService),
		controllers.NewCommentController(commentService),
		controllers.NewLikeController(likeService),
	)

	dispatcher := outbox.NewDispatcher(
		outboxRepo, buildSink(cfg),
		cfg.OutboxDispatchEvery, cfg.OutboxBatchSize, cfg.OutboxMaxRetries,
		cfg.OutboxStaleAfter,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := dispatcher.Run(ctx); err != nil {
			slog.Error("dispatcher exited", "error", err)
		}
	}()

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}

func runDispatcher() {
	cfg := config.Load()

	store, err := repositories.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	dispatcher := outbox.NewDispatcher(
		repositories.NewBadgerOutboxRepository(store.DB()), buildSink(cfg),
		cfg.OutboxDispatchEvery, cfg.OutboxBatchSize, cfg.OutboxMaxRetries,
		cfg.OutboxStaleAfter,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatcher.Run(ctx); err != nil {
		slog.Error("dispatcher exited", "error", err)
		os.Exit(1)
	}
}

func outboxCmd() {
	if len(os.Args) < 3 {
		fmt.Println("usage: community outbox [status|sweep]")
		os.Exit(1)
	}

	cfg := config.Load()
	store, err := repositories.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	outboxRepo := repositories.NewBadgerOutboxRepository(store.DB())

	switch strings.ToLower(os.Args[2]) {
	case "status":
		unpublished, err := outboxRepo.CountUnpublished()
		if err != nil {
			slog.Error("status failed", "error", err)
			os.Exit(1)
		}
		deadLetters, err := outboxRepo.DeadLetters(cfg.OutboxMaxRetries)
		if err != nil {
			slog.Error("status failed", "error", err)
			os.Exit(1)
		}
		stale, err := outboxRepo.FindStale(time.Now().UTC().Add(-cfg.OutboxStaleAfter))
		if err != nil {
			slog.Error("status failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("unpublished: %d\ndead-letter: %d\nstale (> %s): %d\n",
			unpublished, len(deadLetters), cfg.OutboxStaleAfter, len(stale))
		for _, entry := range deadLetters {
			fmt.Printf("  dead-letter %s %s aggregate=%s retries=%d occurred=%s\n",
				entry.ID, entry.EventType, entry.AggregateID, entry.RetryCount, entry.OccurredAt)
		}
	case "sweep":
		deleted, err := outboxRepo.DeletePublishedBefore(time.Now().UTC().Add(-cfg.OutboxRetainFor))
		if err != nil {
			slog.Error("sweep failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("deleted %d published entries older than %s\n", deleted, cfg.OutboxRetainFor)
	default:
		fmt.Println("usage: community outbox [status|sweep]")
		os.Exit(1)
	}
}

func buildProfileCache(cfg config.Config, store *repositories.Store) *identity.ProfileCache {
	var gateway identity.Gateway
	if cfg.IdentityURL == "mock" {
		slog.Warn("using in-memory identity directory, set IDENTITY_URL for a real identity service")
		gateway = mock.NewDirectory()
	} else {
		gateway = identity.NewHTTPGateway(cfg.IdentityURL, cfg.IdentityTimeout)
	}
	return identity.NewProfileCache(
		repositories.NewBadgerProfileRepository(store.DB()), gateway, cfg.ProfileStaleAfter,
	)
}

func buildSink(cfg config.Config) outbox.Sink {
	if cfg.NatsURL == "" {
		slog.Warn("no NATS_URL configured, outbox events go to the log")
		return outbox.LogSink{}
	}
	nc, err := nats.Connect(cfg.NatsURL, nats.Name("community-outbox"))
	if err != nil {
		slog.Error("nats connect failed, outbox events go to the log", "url", cfg.NatsURL, "error", err)
		return outbox.LogSink{}
	}
	return outbox.NewNATSSink(nc, cfg.SubjectPrefix)
}
