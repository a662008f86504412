package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/codingconcepts/env"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/golden-vcr/moddeck/internal/applog"
	"github.com/golden-vcr/moddeck/internal/auth"
	"github.com/golden-vcr/moddeck/internal/dashboard"
	"github.com/golden-vcr/moddeck/internal/health"
	"github.com/golden-vcr/moddeck/internal/moderation"
	"github.com/golden-vcr/moddeck/internal/session"
	"github.com/golden-vcr/moddeck/internal/twitch"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"5002"`
	AppEnv     string `env:"APP_ENV" default:"development"`
	AppBaseUrl string `env:"APP_BASE_URL" required:"true"`
	AuthSecret string `env:"AUTH_SECRET" required:"true"`

	TwitchClientId         string `env:"TWITCH_CLIENT_ID" required:"true"`
	TwitchClientSecret     string `env:"TWITCH_CLIENT_SECRET" required:"true"`
	TwitchApiBaseUrl       string `env:"TWITCH_API_BASE_URL" default:"https://api.twitch.tv/helix"`
	TwitchApiTimeoutSecond int    `env:"TWITCH_API_TIMEOUT" default:"10"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	RedisAddr      string `env:"REDIS_ADDR"`
	LogBufferSize  int    `env:"LOG_BUFFER_SIZE" default:"100"`
	OpenBrowser    bool   `env:"OPEN_BROWSER"`
}

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("error loading .env file: %v", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	ctx, close := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM)
	defer close()

	// Log to stdout, retaining recent entries in memory so they can be viewed in the
	// dashboard
	logBuffer := applog.NewBuffer(config.LogBufferSize)
	logger := applog.New(config.AppEnv, logBuffer)

	// Session cookies are signed JWTs; refuse to start without a signing secret
	codec, err := session.NewCodec(config.AuthSecret)
	if err != nil {
		log.Fatalf("error initializing session codec: %v", err)
	}
	secure := config.AppEnv == "production"
	sessions := session.NewManager(codec, secure, logger)

	// All Twitch API calls are made with the logged-in user's access token
	timeout := time.Duration(config.TwitchApiTimeoutSecond) * time.Second
	twitchClient := twitch.NewClient(config.TwitchClientId, config.TwitchApiBaseUrl, timeout, logger)

	// OAuth state values are additionally recorded in Redis, if configured, so that
	// each can be redeemed only once
	var states auth.StateStore
	var statePinger health.Pinger
	if config.RedisAddr != "" {
		redisStates := auth.NewRedisStateStore(config.RedisAddr)
		defer redisStates.Close()
		states = redisStates
		statePinger = redisStates
	}

	r := mux.NewRouter()

	// Public routes: the login flow and a health check
	exchanger := auth.NewTokenExchanger(config.TwitchClientId, config.TwitchClientSecret)
	authServer := auth.NewServer(config.AppBaseUrl, config.TwitchClientId, exchanger, twitchClient, sessions, states, secure, logger)
	authServer.RegisterRoutes(r)
	r.Path("/healthz").Methods("GET").Handler(health.NewServer(twitchClient.NewAppTokenSource(config.TwitchClientSecret), statePinger))

	// Everything else requires a valid session
	protected := r.NewRoute().Subrouter()
	protected.Use(sessions.Require)
	resolver := moderation.NewResolver(twitchClient, logger)
	facade := moderation.NewFacade(twitchClient, resolver, logger)
	dashboard.NewServer(twitchClient, resolver, facade, logger).RegisterRoutes(protected)
	applog.NewServer(ctx, logger, logBuffer).RegisterRoutes(protected)

	handler := cors.New(cors.Options{
		AllowedOrigins:   parseOrigins(config.AllowedOrigins, config.AppBaseUrl),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowedHeaders:   []string{"Content-Type", "X-Broadcaster-ID"},
		AllowCredentials: true,
	}).Handler(r)

	addr := fmt.Sprintf("%s:%d", config.BindAddr, config.ListenPort)
	server := &http.Server{Addr: addr, Handler: handler}

	logger.Info().Str("addr", addr).Msg("Listening")
	var wg errgroup.Group
	wg.Go(server.ListenAndServe)

	if config.OpenBrowser {
		if err := browser.OpenURL(config.AppBaseUrl); err != nil {
			logger.Warn().Err(err).Msg("Failed to open browser")
		}
	}

	select {
	case <-ctx.Done():
		logger.Info().Msg("Received signal; closing server")
		server.Shutdown(context.Background())
	}

	err = wg.Wait()
	if err == http.ErrServerClosed {
		logger.Info().Msg("Server closed")
	} else {
		log.Fatalf("error running server: %v", err)
	}
}

// parseOrigins splits a comma-separated list of allowed origins, falling back to the
// app's own origin when none are configured
func parseOrigins(value string, fallback string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(value, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = append(origins, strings.TrimSuffix(fallback, "/"))
	}
	return origins
}
