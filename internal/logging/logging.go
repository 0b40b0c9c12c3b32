// Package logging builds the zap logger shared by the CLI commands.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's verbosity and encoding.
type Options struct {
	Verbose bool
	// Format is "console" (default) or "json".
	Format string
	// Out receives log lines; usually stderr.
	Out io.Writer
}

// New builds a logger. Warnings and above are always shown; Verbose adds
// info and debug.
func New(opts Options) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch opts.Format {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.TimeKey = ""
		encCfg.CallerKey = ""
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q (must be console or json)", opts.Format)
	}

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	if opts.Out == nil {
		return zap.NewNop(), nil
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(opts.Out), level)
	return zap.New(core), nil
}
