package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/cinematen/wabliefteru/internal/api"
	"github.com/cinematen/wabliefteru/internal/config"
	"github.com/cinematen/wabliefteru/internal/conversation"
	"github.com/cinematen/wabliefteru/internal/logging"
)

// session is everything one command invocation needs to ask questions
type session struct {
	cfg        config.Config
	endpoint   string
	source     config.EndpointSource
	logCfg     logging.Config
	logger     zerolog.Logger
	client     api.WebhookClientInterface
	dispatcher *conversation.Dispatcher
	logFile    io.Closer
}

// loadConfig reads .env and the config file and applies the global flags
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}
	return cfg, nil
}

// newSession resolves the endpoint once and wires client, store and dispatcher
func newSession(d *Dependencies) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	endpoint, source, err := config.ResolveWebhookURL(webhookFlag, cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		endpoint: endpoint,
		source:   source,
	}
	s.openLog(d.Stderr)

	client, err := d.NewClient(endpoint,
		api.WithTimeout(cfg.Timeout()),
		api.WithStrictStatus(cfg.StrictStatus),
		api.WithLogger(logging.NewWithComponent(s.logCfg, "api")),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.client = client

	store := conversation.NewSeededStore()
	s.dispatcher = conversation.NewDispatcher(store, client,
		conversation.WithLogger(logging.NewWithComponent(s.logCfg, "dispatcher")),
	)

	s.logger.Debug().
		Str("endpoint", endpoint).
		Str("source", string(source)).
		Str("session", store.SessionID()).
		Msg("session started")

	return s, nil
}

// openLog points the logger at the log file. Failing to open it only costs
// the diagnostics, so the session continues without logging.
func (s *session) openLog(stderr io.Writer) {
	s.logCfg = logging.Config{Level: "disabled", Output: io.Discard}
	s.logger = zerolog.Nop()

	path, err := config.GetLogPath(s.cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
		return
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
		return
	}

	s.logFile = f
	s.logCfg = logging.Config{Level: s.cfg.LogLevel, Output: f}
	s.logger = logging.NewWithComponent(s.logCfg, "session")
}

// verbose reports whether the configured level includes debug output
func (s *session) verbose() bool {
	return logging.ParseLevel(s.cfg.LogLevel) <= zerolog.DebugLevel
}

// Close releases the client and the log file
func (s *session) Close() {
	if s.client != nil {
		s.client.Close()
	}
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}
