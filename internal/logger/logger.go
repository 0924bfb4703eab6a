// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// Sitegate writes lifecycle, tenant, and degradation events to one JSON
// log per day under `<dir>/YYYY-MM-DD.log`.  When running in an
// interactive TTY we tee the same events to stdout.  Rotation, compression,
// and retention are handled by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(filepath.Join(root, "logs"), tee, "info")
//	if err != nil { … }
//	log.Infow("tenant resolved", "host", host)
//
// Notes
// -----
//   - ISO-8601 timestamps and lowercase levels.
//   - An empty dir skips the file sink (used by cmd/render and tests).
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a *zap.SugaredLogger writing JSON to <dir>/YYYY-MM-DD.log.
// When tee == true a console core on stdout is attached as well.  The
// logger is installed as the process-wide default via zap.ReplaceGlobals.
func New(dir string, tee bool, level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	var (
		cores  []zapcore.Core
		errOut zapcore.WriteSyncer = zapcore.AddSync(os.Stderr)
	)

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		fileSink := &lumberjack.Logger{
			Filename:   filepath.Join(dir, time.Now().Format("2006-01-02")+".log"),
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), lvl))
		errOut = zapcore.AddSync(fileSink)
	}

	if tee || dir == "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), lvl))
	}

	z := zap.New(zapcore.NewTee(cores...), zap.ErrorOutput(errOut)).Sugar()
	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "dir", dir, "tee", tee, "level", lvl.String())
	return z, nil
}
