// =============================================================================
// Survey Ingestor - Logging Facade & Audit Log
// =============================================================================
//
// This package provides the single logging facade used by every pipeline
// component. It is constructed exactly once by the CLI entry point and
// injected downward; there is no package-level logger and no import-time
// side effect, so components stay testable with a Nop facade.
//
// The facade tees to two sinks:
//   - console (stdout): human-readable progress narration
//   - audit file: append-only, survives restarts; this is the only durable
//     history of why the dataset looks the way it does
//
// The audit file uses the same pipe-separated layout the rest of the system
// greps for: "2006-01-02 15:04:05 | LEVEL | message | fields".
//
// =============================================================================

package audit

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the pipeline-wide logging facade. The zero value is not usable;
// construct with New or Nop.
type Logger struct {
	zl   *zap.Logger
	file *os.File
}

// New builds a facade writing to stdout and appending to logPath. The log
// directory is created if missing. verbose lowers the console threshold to
// debug; the audit file always records info and above.
func New(logPath string, verbose bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	consoleLevel := zapcore.InfoLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.ConsoleSeparator = " | "

	consoleCfg := encCfg
	consoleCfg.TimeKey = "" // console lines stay short; the file keeps timestamps
	consoleEnc := zapcore.NewConsoleEncoder(consoleCfg)
	fileEnc := zapcore.NewConsoleEncoder(encCfg)

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), consoleLevel),
		zapcore.NewCore(fileEnc, zapcore.Lock(zapcore.AddSync(file)), zapcore.InfoLevel),
	)

	return &Logger{zl: zap.New(core), file: file}, nil
}

// Nop returns a facade that discards everything. Used by tests and by
// components exercised outside a pipeline run.
func Nop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

// Debug logs fine-grained progress, console-only unless verbose.
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zl.Debug(msg, fields...) }

// Info logs a normal pipeline milestone.
func (l *Logger) Info(msg string, fields ...zap.Field) { l.zl.Info(msg, fields...) }

// Warn logs a recoverable anomaly.
func (l *Logger) Warn(msg string, fields ...zap.Field) { l.zl.Warn(msg, fields...) }

// Error logs a run-terminating failure.
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zl.Error(msg, fields...) }

// Close flushes buffered entries and closes the audit file.
func (l *Logger) Close() error {
	_ = l.zl.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
