package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"terrain-arena/internal/config"
	"terrain-arena/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configDir := flag.String("config", ".", "Directory holding "+config.FileName)
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	clientDir := flag.String("client", "", "Path to client directory (overrides server.clientDir)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		config.Set("server.addr", *addr)
	}
	if *clientDir != "" {
		config.Set("server.clientDir", *clientDir)
	}

	log, closeLog := setupLogging()
	defer closeLog()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func setupLogging() (zerolog.Logger, func()) {
	var file *os.File
	if path := config.GetString("logFile"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", path, err)
		} else {
			file = f
		}
	}
	if file == nil {
		return logging.New(config.GetString("logLevel"), os.Stdout, nil), func() {}
	}
	return logging.New(config.GetString("logLevel"), os.Stdout, file), func() { file.Close() }
}

func run(log zerolog.Logger) error {
	srvCfg := config.GetServerConfig()
	recCfg := config.GetRecorderConfig()
	defaults := config.GetRoundConfig()
	if err := defaults.Validate(); err != nil {
		return err
	}

	var db *DB
	if path := config.GetString("db.path"); path != "" {
		var err error
		db, err = OpenDB(path)
		if err != nil {
			return fmt.Errorf("open database %s: %w", path, err)
		}
		defer db.Close()
	}

	recorder := NewRecorder(db, recCfg.FlushInterval, recCfg.BatchSize, log)
	defer recorder.Stop()

	tickets := NewTickets(config.GetString("auth.secret"), db, log)
	sessions := NewSessionManager(srvCfg.MaxSessions, log,
		WithRates(srvCfg.TickRate, srvCfg.BroadcastRate),
		WithRecorder(recorder),
	)
	defer sessions.StopAll()

	hub := NewHub(sessions, tickets, db, HubOptions{
		Defaults:  defaults,
		MaxPerIP:  srvCfg.MaxPerIP,
		MaxTotal:  srvCfg.MaxTotal,
		PublicURL: srvCfg.PublicURL,
	}, log)
	go hub.Run()

	server := &http.Server{Addr: srvCfg.Addr, Handler: SetupRoutes(hub, srvCfg.ClientDir)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srvCfg.Addr).
			Str("client", srvCfg.ClientDir).
			Int("tickRate", srvCfg.TickRate).
			Msg("server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
