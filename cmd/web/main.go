package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"voice-chat/config"
	"voice-chat/internal/application"
	"voice-chat/internal/infra/openai"
	"voice-chat/internal/infra/web"
	"voice-chat/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	if err := cfg.ValidateChat(); err != nil {
		logrus.WithError(err).Fatal("fill in the openai settings before running")
	}

	logger := logging.NewLogger(cfg.Log)

	chat := application.NewChatService(openai.NewCompleter(cfg.OpenAI), cfg.OpenAI.MaxTokens, logger)
	server := web.NewServer(cfg.HTTP, chat, cfg.OpenAI.MaxTokens, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	if err := server.Start(); err != nil {
		logger.WithError(err).Error("server error")
		os.Exit(1)
	}
}
