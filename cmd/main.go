package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"skoll/internal/config"
	"skoll/internal/feed"
	"skoll/internal/session"
	"skoll/internal/sink"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	inputPath := flag.String("input", "", "event stream to consume")
	nbboPath := flag.String("nbbo", "", "top-of-book output path")
	tradesPath := flag.String("trades", "", "trade log output path")
	logLevel := flag.String("log-level", "", "zerolog level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("unable to load config")
		os.Exit(1)
	}
	// Flags override the file.
	if *inputPath != "" {
		cfg.Input = *inputPath
	}
	if *nbboPath != "" {
		cfg.NBBO = *nbboPath
	}
	if *tradesPath != "" {
		cfg.Trades = *tradesPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Error().Err(err).Msg("invalid log level")
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(level)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid config")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("session failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	input, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() {
		if err := input.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close input")
		}
	}()

	nbboFile, err := os.Create(cfg.NBBO)
	if err != nil {
		return fmt.Errorf("create nbbo output: %w", err)
	}
	tradesFile, err := os.Create(cfg.Trades)
	if err != nil {
		nbboFile.Close()
		return fmt.Errorf("create trade output: %w", err)
	}

	nbbo, err := sink.NewNBBO(nbboFile)
	if err != nil {
		return err
	}
	trades, err := sink.NewTrades(tradesFile)
	if err != nil {
		return err
	}

	runErr := session.New(feed.NewReader(input), nbbo, trades).Run(ctx)

	if err := nbboFile.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close nbbo output: %w", err)
	}
	if err := tradesFile.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close trade output: %w", err)
	}
	return runErr
}
