package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		output = file
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = timeFormat

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: timeFormat}
	}

	zl := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "marketsnap").
		Logger()

	return &Logger{zl: zl}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger carrying fields on every event.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = f.context(ctx)
	}
	return &Logger{zl: ctx.Logger()}
}

func (l *Logger) Debug(msg string, fields ...Field) { emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { emit(l.zl.Error(), msg, fields) }

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...Field) { emit(l.zl.Fatal(), msg, fields) }

func emit(ev *zerolog.Event, msg string, fields []Field) {
	if ev == nil {
		return
	}
	for _, f := range fields {
		f.event(ev)
	}
	ev.Msg(msg)
}

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindError
)

// Field is one structured key/value pair.
type Field struct {
	key  string
	kind fieldKind
	str  string
	num  int64
	err  error
}

func (f Field) event(ev *zerolog.Event) {
	switch f.kind {
	case kindInt:
		ev.Int64(f.key, f.num)
	case kindBool:
		ev.Bool(f.key, f.num != 0)
	case kindError:
		ev.AnErr(f.key, f.err)
	default:
		ev.Str(f.key, f.str)
	}
}

func (f Field) context(ctx zerolog.Context) zerolog.Context {
	switch f.kind {
	case kindInt:
		return ctx.Int64(f.key, f.num)
	case kindBool:
		return ctx.Bool(f.key, f.num != 0)
	case kindError:
		return ctx.AnErr(f.key, f.err)
	default:
		return ctx.Str(f.key, f.str)
	}
}

func String(key, value string) Field {
	return Field{key: key, kind: kindString, str: value}
}

func Strings(key string, value []string) Field {
	return String(key, strings.Join(value, ","))
}

func Int(key string, value int) Field {
	return Int64(key, int64(value))
}

func Int64(key string, value int64) Field {
	return Field{key: key, kind: kindInt, num: value}
}

func Bool(key string, value bool) Field {
	f := Field{key: key, kind: kindBool}
	if value {
		f.num = 1
	}
	return f
}

// Duration logs d in whole milliseconds.
func Duration(key string, d time.Duration) Field {
	return Int64(key, d.Milliseconds())
}

func Error(err error) Field {
	return Field{key: zerolog.ErrorFieldName, kind: kindError, err: err}
}
