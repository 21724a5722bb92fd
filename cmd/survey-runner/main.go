package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/survey-service/internal/client"
	"github.com/SAP-F-2025/survey-service/internal/session"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"go.uber.org/zap"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "survey service base URL")
	slug := flag.String("slug", "", "public survey link slug")
	sessionDir := flag.String("session-dir", ".survey-sessions", "directory holding in-progress sessions")
	verbose := flag.Bool("verbose", false, "log service calls")
	flag.Parse()

	if *slug == "" {
		fmt.Fprintln(os.Stderr, "missing -slug")
		flag.Usage()
		os.Exit(2)
	}

	environment := "production"
	if *verbose {
		environment = "development"
	}
	logger := utils.NewZap(environment)
	defer logger.Sync()

	storage, err := session.NewFileStorage(*sessionDir)
	if err != nil {
		logger.Fatal("Failed to open session directory", zap.String("dir", *sessionDir), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := newRunner(
		client.NewPublicClient(*server, logger),
		session.NewStore(storage, logger),
		os.Stdin,
		os.Stdout,
		logger,
	)
	if err := r.Run(ctx, *slug); err != nil {
		logger.Error("Survey run failed", zap.String("slug", *slug), zap.Error(err))
		os.Exit(1)
	}
}
