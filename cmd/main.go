package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"subnet-vox/domain"
	"subnet-vox/internal"
	"subnet-vox/moderation"
	"subnet-vox/projection"
	"subnet-vox/runtime"
	"subnet-vox/runtime/workers"
	"subnet-vox/sink"
	"subnet-vox/transport"
)

//go:embed censored/*
var censoredFolder embed.FS

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the session lifecycle, and
// centralizes error reporting so defers execute before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log := internal.GetLoggerFromString(config.LogLevel)

	// 2. Identity
	printLogo()
	username := config.Username
	if username == "" {
		var err error
		if username, err = promptUsername(os.Stdin, os.Stdout); err != nil {
			return err
		}
	}
	identity, err := domain.NewIdentity(username)
	if err != nil {
		return err
	}

	// 3. Multicast group join — fatal if it fails, nothing to retry.
	group, err := transport.Join(config.GroupAddress, config.ChatPort, config.MulticastTTL, config.ReadBufferSize)
	if err != nil {
		return fmt.Errorf("cannot join the chat group: %w", err)
	}
	defer func() {
		log.Info("Releasing multicast socket...")
		_ = group.Close()
	}()

	// 4. Moderation
	var censor runtime.Censor
	if config.CensorEnabled {
		replacement, err := CharacterRune(config.CharReplacement)
		if err != nil {
			return err
		}
		filter, err := moderation.NewFilter(loadCensoredWords(), replacement)
		if err != nil {
			return fmt.Errorf("moderation setup: %w", err)
		}
		censor = filter.Apply
	}

	// 5. Context & Signals (Ctrl+C is the cancellation signal)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 6. Session wiring
	inputs := make(chan string, config.EventBufferSize)
	datagrams := make(chan runtime.Datagram, config.EventBufferSize)

	registry := runtime.NewRegistry(identity)
	console := sink.NewConsole(os.Stdout, identity)
	timeline := projection.NewTimeline(config.HistoryLimit)
	session := runtime.NewSession(
		log, identity, registry, group, censor,
		inputs, datagrams, cancel, config.PeerTimeout,
		console, timeline,
	)

	if config.ShowIntro {
		showIntro(config.GroupAddress, config.ChatPort)
	}
	log.Info("Joined multicast group", "group", group.Group(), "user", identity.Username, "id", identity.ID)

	// The stdin reader cannot be interrupted, so it runs outside the
	// supervisor: its pending read is abandoned when the process exits.
	inputWorker := workers.NewInputWorker(log, os.Stdin, inputs)
	go func() { _ = inputWorker.Run(sessionCtx) }()

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewReceiveWorker(log, group, datagrams),
		session,
	)
	sup.Run(sessionCtx)

	fmt.Println("disconnected from the subnet.")
	return nil
}

func loadCensoredWords() []string {
	data, err := censoredFolder.ReadFile("censored/default.txt")
	if err != nil {
		return nil
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}
