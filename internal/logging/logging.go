package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"coal-bot/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	sinkMu sync.RWMutex
	sink   io.Writer = os.Stdout
	file   *rotatingWriter
)

// Init configures the global zerolog logger. A file sink that cannot be
// opened falls back to stdout and is reported once.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	var openErr error
	if cfg.File != "" {
		w, err := newRotatingWriter(cfg.File, cfg.MaxMB, cfg.Backups)
		if err != nil {
			openErr = err
		} else {
			out = io.MultiWriter(os.Stdout, w)
			setFile(w)
		}
	}
	setSink(out)

	console := out
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(console).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger

	if openErr != nil {
		log.Warn().Err(openErr).Str("path", cfg.File).Msg("log file unavailable; logging to stdout only")
	}
}

// Writer is the raw sink behind the global logger, for loggers that are not
// zerolog (the HTTP access log).
func Writer() io.Writer {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sink
}

// Close releases the file sink, if any.
func Close() error {
	sinkMu.Lock()
	w := file
	file = nil
	sink = os.Stdout
	sinkMu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}

func setSink(w io.Writer) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sink = w
}

func setFile(w *rotatingWriter) {
	sinkMu.Lock()
	prev := file
	file = w
	sinkMu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
}
