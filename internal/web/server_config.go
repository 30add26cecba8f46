package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "FRACTALDRAW_LISTEN"
	EnvDevMode    = "FRACTALDRAW_DEV"
	EnvStreamFPS  = "FRACTALDRAW_STREAM_FPS"

	DefaultStreamFPS = 20
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - device:    :80
// - simulator: :8080
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
	StreamFPS  int
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	streamFPS := DefaultStreamFPS
	if raw := os.Getenv(EnvStreamFPS); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return ServerConfig{}, fmt.Errorf("%s must be a positive integer (got %q)", EnvStreamFPS, raw)
		}
		streamFPS = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode, StreamFPS: streamFPS}, nil
}
