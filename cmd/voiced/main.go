package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"voiced/internal/catalog"
	"voiced/internal/common/fsutil"
	"voiced/internal/config"
	"voiced/internal/httpapi"
	"voiced/internal/manager"
	"voiced/internal/proxy"
)

const version = "1.0.0"

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	// Flags with environment variable defaults
	configPath := flag.String("config", envStr("VOICED_CONFIG", ""), "Config file (.yaml/.json/.toml); flags override it")
	host := flag.String("host", envStr("VOICED_HOST", "0.0.0.0"), "Listen host")
	port := flag.Int("port", envInt("VOICED_PORT", 8001), "Listen port")
	apiKey := flag.String("api-key", envStr("VOICED_API_KEY", ""), "API key; empty disables auth")
	backend := flag.String("backend", envStr("VOICED_BACKEND", ""), "Backend: local or elevenlabs")
	voicesDir := flag.String("voices-dir", envStr("VOICED_VOICES_DIR", "~/voices"), "Voices directory")
	runtimeURL := flag.String("runtime-url", envStr("VOICED_RUNTIME_URL", "http://127.0.0.1:8100"), "TTS model runtime URL")
	logLevel := flag.String("log-level", envStr("VOICED_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	var cfg config.Config
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
	}
	// Flags and env override the file.
	cfg.Host = *host
	cfg.Port = *port
	if *apiKey != "" {
		cfg.APIKey = *apiKey
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if cfg.Backend == "" {
		cfg.Backend = "local"
	}
	if cfg.VoicesDir == "" || *voicesDir != "~/voices" {
		cfg.VoicesDir = *voicesDir
	}
	if cfg.RuntimeURL == "" || *runtimeURL != "http://127.0.0.1:8100" {
		cfg.RuntimeURL = *runtimeURL
	}
	applyConfigDefaults(&cfg)

	var svc httpapi.Service
	var mgr *manager.Manager
	switch cfg.Backend {
	case "local":
		mgr = buildManager(cfg, log)
		startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		if err := mgr.Startup(startCtx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("manager startup failed")
		}
		cancel()
		svc = &httpapi.LocalService{Manager: mgr}
	case "elevenlabs":
		if cfg.ElevenLabsAPIKey == "" {
			log.Fatal().Msg("elevenlabs backend requires elevenlabs_api_key")
		}
		svc = proxy.New(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, proxy.WithLogger(log))
	default:
		log.Fatal().Str("backend", cfg.Backend).Msg("unknown backend")
	}

	mux := httpapi.NewMux(svc, httpapi.Options{
		Host:              cfg.Host,
		Port:              cfg.Port,
		Version:           version,
		APIKey:            cfg.APIKey,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
		Logger:            log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("backend", cfg.Backend).Msg("voiced listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	if mgr != nil {
		if err := mgr.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("manager shutdown error")
		}
	}
}

func applyConfigDefaults(cfg *config.Config) {
	if cfg.STTModelName == "" {
		cfg.STTModelName = "base"
	}
	if cfg.STTDevice == "" {
		cfg.STTDevice = "auto"
	}
	if cfg.STTComputeType == "" {
		cfg.STTComputeType = "int8"
	}
	if cfg.IdleTimeoutSeconds <= 0 {
		cfg.IdleTimeoutSeconds = 300
	}
	if cfg.OffloadCheckIntervalSeconds <= 0 {
		cfg.OffloadCheckIntervalSeconds = 30
	}
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 100
	}
	if cfg.RateLimitWindowSeconds <= 0 {
		cfg.RateLimitWindowSeconds = 60
	}
}

func buildManager(cfg config.Config, log zerolog.Logger) *manager.Manager {
	voicesDir, err := fsutil.ExpandHome(cfg.VoicesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve voices dir")
	}

	tts := manager.NewQwenServerRuntime(cfg.RuntimeURL, "", 5*time.Minute, 10*time.Second)

	var stt manager.STTRuntime
	if cfg.STTServerURL != "" {
		stt = manager.NewWhisperServerRuntime(cfg.STTServerURL, 5*time.Minute, 10*time.Second)
	} else {
		stt = manager.NewWhisperCppRuntime()
	}

	return manager.NewWithConfig(manager.ManagerConfig{
		Catalog:         catalog.New(voicesDir),
		TTS:             tts,
		STT:             stt,
		BaseModelPath:   cfg.TTSBaseModelPath,
		DesignModelPath: cfg.TTSVoiceDesignModelPath,
		STTModel: manager.STTModelConfig{
			Model:       cfg.STTModelName,
			Device:      cfg.STTDevice,
			ComputeType: cfg.STTComputeType,
		},
		STTBeamSize:    cfg.STTBeamSize,
		STTBestOf:      cfg.STTBestOf,
		STTVADFilter:   cfg.STTVADFilter,
		OffloadEnabled: cfg.OffloadEnabled,
		IdleTimeout:    time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
		CheckInterval:  time.Duration(cfg.OffloadCheckIntervalSeconds) * time.Second,
		Logger:         log,
	})
}
