package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aaronFortuno/HexaTegy/internal/bot"
)

func main() {
	url := flag.String("url", "http://localhost:3001", "server base URL")
	room := flag.String("room", "", "room code to join (required)")
	name := flag.String("name", "Bot", "display name")
	strategyName := flag.String("strategy", "greedy", "bot strategy (greedy, random, idle)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *room == "" {
		log.Fatal().Msg("missing -room flag")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	client := bot.NewClient(*url, *room, *name, bot.StrategyForName(*strategyName))
	if err := client.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("Bot failed")
	}
	log.Info().Msg("Bot finished")
}
