package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
)

// Speller turns text into letter units. fingerspell.LocalResolver is the
// production implementation.
type Speller interface {
	Spell(text string) []fingerspell.LetterUnit
}

// Config holds the server configuration
type Config struct {
	Addr            string
	ImageDir        string // Serves /images/asl_alphabet/ when set
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	Speller         Speller
	Logger          *zap.Logger
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Addr:            "127.0.0.1:8080",
		MaxBodyBytes:    64 << 10,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server is the HTTP transcription service
type Server struct {
	config  Config
	logger  *zap.Logger
	speller Speller
	handler http.Handler
}

// New creates a server. Zero config values take their defaults.
func New(config *Config) *Server {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	c := *config
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.Speller == nil {
		c.Speller = fingerspell.NewLocalResolver(nil)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	s := &Server{
		config:  c,
		logger:  c.Logger,
		speller: c.Speller,
	}
	s.handler = chain(s.routes(), s.logRequests, s.recoverPanic)
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/transcribe", requireMethod(http.MethodPost, http.HandlerFunc(s.handleTranscribe)))
	mux.Handle("/placeholder.svg", requireMethod(http.MethodGet, http.HandlerFunc(s.handlePlaceholder)))
	mux.HandleFunc("/healthz", s.handleHealth)

	if s.config.ImageDir != "" {
		images := http.StripPrefix(fingerspell.DefaultBasePath+"/", http.FileServer(http.Dir(s.config.ImageDir)))
		mux.Handle(fingerspell.DefaultBasePath+"/", requireMethod(http.MethodGet, images))
	}
	return mux
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled and then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Transcription service listening", zap.String("addr", listener.Addr().String()))
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down transcription service")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
