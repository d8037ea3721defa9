package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/CAFxX/httpcompression"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/httputil"
	"github.com/getsentry/callcount/internal/ingest"
	"github.com/getsentry/callcount/internal/logutil"
	"github.com/getsentry/callcount/internal/storageprovider"
)

type environment struct {
	config ServiceConfig

	// mu serializes every access to registry, which is not safe for
	// concurrent use.
	mu       sync.Mutex
	registry *callcount.Registry

	consumer  *ingest.Consumer
	snapshots storageprovider.Handler
}

var release string

func newEnvironment(ctx context.Context, config ServiceConfig) (*environment, error) {
	e := environment{
		config:   config,
		registry: callcount.NewRegistry(config.Costs),
	}
	if config.SnapshotBucket != "" {
		h, err := storageprovider.Open(ctx, config.SnapshotBucket)
		if err != nil {
			return nil, err
		}
		e.snapshots = h
	}
	if len(config.KafkaBrokers) > 0 {
		reader := ingest.NewKafkaReader(config.KafkaBrokers, config.KafkaTopic, config.KafkaGroupID)
		e.consumer = ingest.NewConsumer(reader, e.apply)
	}
	return &e, nil
}

func (e *environment) shutdown() {
	if e.consumer != nil {
		if err := e.consumer.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	if e.snapshots != nil {
		if err := e.snapshots.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	sentry.Flush(5 * time.Second)
}

// apply records one event under the registry lock.
func (e *environment) apply(ev ingest.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ingest.Apply(e.registry, ev)
}

func (e *environment) newRouter() (*httprouter.Router, error) {
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}

	routes := []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodPost, "/calls", e.postCalls},
		{http.MethodGet, "/report", e.getReport},
		{http.MethodGet, "/functions/:name", e.getFunction},
		{http.MethodPost, "/snapshots", e.postSnapshot},
		{http.MethodGet, "/health", e.getHealth},
	}

	router := httprouter.New()

	for _, route := range routes {
		handlerFunc := httputil.DecompressPayload(route.handler)
		handler := compress(handlerFunc)

		router.Handler(route.method, route.path, handler)
	}

	return router, nil
}

func main() {
	logutil.ConfigureLogger()

	config, err := loadServiceConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error reading configuration")
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              config.SentryDSN,
		Environment:      config.Environment,
		Release:          release,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("can't initialize sentry")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env, err := newEnvironment(ctx, config)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Msg("error setting up environment")
	}

	router, err := env.newRouter()
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Msg("error setting up the router")
	}

	if env.consumer != nil {
		go func() {
			if err := env.consumer.Run(ctx); err != nil {
				sentry.CaptureException(err)
				log.Err(err).Msg("kafka consumer stopped")
			}
		}()
	}

	server := http.Server{
		Addr:    ":" + config.Port,
		Handler: sentryhttp.New(sentryhttp.Options{}).Handle(router),
	}

	waitForShutdown := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		cancel()

		cctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(cctx); err != nil {
			sentry.CaptureException(err)
			log.Err(err).Msg("error shutting down server")
		}

		close(waitForShutdown)
	}()

	log.Info().Str("port", config.Port).Strs("dimensions", config.Costs.Names).Msg("listening")
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		sentry.CaptureException(err)
		log.Err(err).Msg("server failed")
	}

	<-waitForShutdown

	// Shutdown the rest of the environment after the HTTP connections are closed
	env.shutdown()
}

func (e *environment) getHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
