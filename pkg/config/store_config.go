package config

import (
	"io"
	"path/filepath"

	"github.com/warptools/leafstore/pkg/logging"
)

const (
	DefaultRoot     = "."
	DefaultLogLevel = logging.LevelWarn
	DefaultLogMode  = logging.ModeConsole
)

// RootPath is the directory segment paths are resolved under.
// The result is relative when both the override and the working directory are empty.
func RootPath(state State) string {
	root, ok := state.Env[EnvLeafstoreRoot]
	if !ok || root == "" {
		root = DefaultRoot
	}
	if filepath.IsAbs(root) || state.WorkingDirectory == "" {
		return filepath.Clean(root)
	}
	return filepath.Join(state.WorkingDirectory, root)
}

// LogLevel returns the configured log threshold.
//
// Errors:
//
//  - leafstore-error-invalid -- when the level can't be parsed
func LogLevel(state State) (logging.Level, error) {
	value, ok := state.Env[EnvLeafstoreLogLevel]
	if !ok || value == "" {
		return DefaultLogLevel, nil
	}
	return logging.ParseLevel(value)
}

// LogMode returns the configured log sink.
//
// Errors:
//
//  - leafstore-error-invalid -- when the mode can't be parsed
func LogMode(state State) (logging.Mode, error) {
	value, ok := state.Env[EnvLeafstoreLogMode]
	if !ok || value == "" {
		return DefaultLogMode, nil
	}
	return logging.ParseMode(value)
}

// Logger builds the logger described by state, writing to out.
//
// Errors:
//
//  - leafstore-error-invalid -- when the level or mode can't be parsed
//  - leafstore-error-unsupported -- when a mode other than console is selected
func Logger(state State, out io.Writer) (*logging.Logger, error) {
	level, err := LogLevel(state)
	if err != nil {
		return nil, err
	}
	mode, err := LogMode(state)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(out, level, mode)
}
