package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"voice-chat/config"
	"voice-chat/internal/application"
	"voice-chat/internal/infra/audio"
	"voice-chat/internal/infra/azure"
	"voice-chat/internal/infra/openai"
	"voice-chat/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("fill in the speech and openai settings before running")
	}

	logger := logging.NewLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	source, err := createAudioSource(ctx, cfg.Audio, logger)
	if err != nil {
		logger.WithError(err).Fatal("starting audio source")
	}
	if source != nil {
		defer source.Stop()
	}

	recognizer, err := createRecognizer(cfg.Speech, source, logger)
	if err != nil {
		logger.WithError(err).Fatal("creating recognizer")
	}
	defer recognizer.Close()

	var tts application.Synthesizer = &application.NoopSynthesizer{}
	synthesizer, err := azure.NewSynthesizer(cfg.Speech, logger)
	if err != nil {
		logger.WithError(err).Warn("speaker unavailable, replies will only be printed")
	} else {
		defer synthesizer.Close()
		tts = synthesizer
	}

	chat := application.NewChatService(openai.NewCompleter(cfg.OpenAI), cfg.OpenAI.MaxTokens, logger)

	assistant := application.NewAssistant(
		recognizer,
		tts,
		chat,
		application.NewConsoleNotifier(os.Stdout),
		cfg.OpenAI.MaxTokens,
		logger,
	)

	logger.WithFields(logrus.Fields{
		"audio_source": cfg.Audio.Source,
		"language":     cfg.Speech.Language,
		"voice":        cfg.Speech.Voice,
		"deployment":   cfg.OpenAI.Deployment,
	}).Info("starting voice assistant")

	if err := assistant.Run(ctx); err != nil {
		logger.WithError(err).Error("assistant error")
		os.Exit(1)
	}
}

// createAudioSource returns nil for "sdk", where the Speech SDK reads the
// default microphone itself.
func createAudioSource(ctx context.Context, cfg config.AudioConfig, logger *logrus.Logger) (application.AudioSource, error) {
	var source application.AudioSource
	switch cfg.Source {
	case "sdk":
		return nil, nil
	case "microphone":
		source = audio.NewMicrophoneSource(cfg.SampleRate, logger)
	case "file":
		source = audio.NewFileSource(cfg.FileDir)
	default:
		logger.WithField("source", cfg.Source).Warn("unknown audio source, using sdk")
		return nil, nil
	}

	if err := source.Start(ctx); err != nil {
		return nil, err
	}
	return source, nil
}

func createRecognizer(cfg config.SpeechConfig, source application.AudioSource, logger *logrus.Logger) (*azure.Recognizer, error) {
	if source == nil {
		return azure.NewMicrophoneRecognizer(cfg, logger)
	}
	return azure.NewStreamRecognizer(cfg, source, logger)
}
