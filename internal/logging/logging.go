// Package logging provides the structured logger shared by the scheduling
// core and its CLI entry point.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Config controls the package-level logger.
type Config struct {
	Level  string // debug/info/warn/error
	Format string // json/console
}

// DefaultConfig returns the logger configuration used when Init is never
// called explicitly.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// Init configures the package-level logger. Safe to call once; subsequent
// calls are no-ops.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		if cfg.Format == "console" {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
				With().Timestamp().Logger()
			return
		}
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
}

// Get returns the package-level logger, initializing it with defaults on
// first use.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SolveLogger is the solve-scoped logger, grouping every log line for one
// solve call under component=scheduler.
type SolveLogger struct {
	base *zerolog.Logger
}

// NewSolveLogger creates a SolveLogger.
func NewSolveLogger() *SolveLogger {
	l := Get().With().Str("component", "scheduler").Logger()
	return &SolveLogger{base: &l}
}

// Start logs the beginning of a solve call.
func (l *SolveLogger) Start(staffCount, requirementCount int, splitRegime bool) {
	l.base.Info().
		Int("staff", staffCount).
		Int("requirements", requirementCount).
		Bool("split_regime", splitRegime).
		Msg("solve started")
}

// Finish logs the end of a solve call.
func (l *SolveLogger) Finish(elapsed time.Duration, status string, coveragePct float64) {
	l.base.Info().
		Dur("elapsed", elapsed).
		Str("status", status).
		Float64("coverage_pct", coveragePct).
		Msg("solve finished")
}

// Infeasible logs a no-feasible-schedule outcome.
func (l *SolveLogger) Infeasible(reason string) {
	l.base.Warn().Str("reason", reason).Msg("no feasible schedule")
}

// InvariantViolation logs a post-solve verification failure.
func (l *SolveLogger) InvariantViolation(detail string) {
	l.base.Error().Str("detail", detail).Msg("post-solve invariant violation")
}
