package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-route-finder/credentials"
	"github.com/jrsteele09/go-route-finder/gateway"
	"github.com/jrsteele09/go-route-finder/history"
	"github.com/jrsteele09/go-route-finder/internal/config"
	"github.com/jrsteele09/go-route-finder/internal/logging"
	"github.com/jrsteele09/go-route-finder/internal/observability"
	"github.com/jrsteele09/go-route-finder/server"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	if err := logging.Setup(c.GetEnv(), c.GetLogLevel()); err != nil {
		log.Warn().Err(err).Msg("Falling back to info logging")
	}
	displayAppname(c.GetAppName())

	shutdownTracing, err := observability.InitTracing(context.Background(), c.GetAppName(), c.GetTraceStdout())
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	historyStore, err := history.Open(c.GetHistoryFolder())
	if err != nil {
		return fmt.Errorf("open search history: %w", err)
	}

	gw, err := gateway.New(c.GetAPIBaseURL(),
		gateway.WithRefreshEndpoint(c.GetRefreshEndpoint()),
		gateway.WithLoginPath(c.GetLoginPath()),
		gateway.WithTimeout(c.GetRequestTimeout()),
		gateway.WithCircuitBreaker(c.GetCircuitBreakerEnabled()),
	)
	if err != nil {
		_ = historyStore.Close()
		return err
	}

	handler, err := server.New(c, gw, credentials.NewInMemoryRepo(c.GetMaxSessionAge()), historyStore)
	if err != nil {
		_ = historyStore.Close()
		return err
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case returnError = <-serveErr:
	case <-waitForStopSignal():
		returnError = shutdown(srv)
	}

	if err := historyStore.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close search history")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
	return returnError
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
