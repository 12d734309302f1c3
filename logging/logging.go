package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKeyType string

const (
	loggerKey = loggerKeyType("logger")
)

// Options configures the root logger
type Options struct {
	// Dir is where the JSON log file is written, empty disables file logging
	Dir     string `json:"dir"`
	File    string `json:"file"`
	Console bool   `json:"console"`
	// Debug lowers the level to debug and uses the development encoder
	Debug bool `json:"debug"`
	// MemorySize is the number of recent lines kept for Dump, 0 disables it
	MemorySize int `json:"memorySize"`
}

func DefaultOptions() Options {
	return Options{
		Dir:        ".",
		File:       "log.json",
		Console:    true,
		MemorySize: 500,
	}
}

var (
	rootLogger = zap.NewNop()
	logfile    *fileSink
	memory     LogsExporter
)

// fileSink discards writes once closed, so loggers derived before Clean
// keep working on their other outputs
type fileSink struct {
	mu sync.Mutex
	f  *os.File
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return len(p), nil
	}
	return s.f.Write(p)
}

func (s *fileSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	return s.f.Sync()
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// Init replaces the root logger by one writing to the configured outputs
func Init(o Options) error {
	devmode := o.Debug
	debugFilter := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.DebugLevel
	})
	infoFilter := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.InfoLevel
	})

	var jsonEncoder zapcore.Encoder
	if devmode {
		jsonEncoder = zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		jsonEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	fileFilter := infoFilter
	if devmode {
		fileFilter = debugFilter
	}

	var cores []zapcore.Core
	if o.Console {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		console := zapcore.Lock(os.Stdout)
		cores = append(cores, zapcore.NewCore(consoleEncoder, console, fileFilter))
	}
	if o.Dir != "" && o.File != "" {
		f, err := os.OpenFile(filepath.Join(o.Dir, o.File), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logfile = &fileSink{f: f}
		cores = append(cores, zapcore.NewCore(jsonEncoder, logfile, fileFilter))
	}
	if o.MemorySize > 0 {
		sink := NewMemoryLogger(o.MemorySize)
		memory = sink.(LogsExporter)
		cores = append(cores, zapcore.NewCore(jsonEncoder, sink, fileFilter))
	}

	rootLogger = zap.New(zapcore.NewTee(cores...))
	rootLogger.With(zap.Bool("devmode", devmode)).Info("Logging initialized")
	return nil
}

// Clean flushes the root logger and closes the log file. Logging keeps
// working afterwards, minus the file.
func Clean() error {
	err := rootLogger.Sync()
	if logfile != nil {
		rootLogger.Info("Closing log file")
		if cerr := logfile.Close(); cerr != nil && err == nil {
			err = cerr
		}
		logfile = nil
	}
	return err
}

// Dump writes the recent log lines kept in memory, newest first if revert is set
func Dump(w io.Writer, revert bool) error {
	if memory == nil {
		return nil
	}
	return memory.Export(w, revert)
}

// From returns the logger of the current context, if no logger is available, returns the root logger
func From(ctx context.Context) *zap.Logger {
	l := ctx.Value(loggerKey)
	if l == nil {
		return rootLogger
	}
	return l.(*zap.Logger)
}

func SubFrom(ctx context.Context, name string) (*zap.Logger, context.Context) {
	logger := From(ctx).Named(name)
	return logger, Context(ctx, logger)
}

func Context(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = rootLogger
	}
	return context.WithValue(ctx, loggerKey, logger)
}

func FromWithFields(ctx context.Context, fields ...zapcore.Field) (*zap.Logger, context.Context) {
	logger := From(ctx).With(fields...)
	ctx = Context(ctx, logger)
	return logger, ctx
}
