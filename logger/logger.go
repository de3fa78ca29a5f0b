package logger

import (
	"errors"
	"io"
	"os"

	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the standard logging interface used across applications.
// It provides methods for different log levels and formatting options.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg any)
	// Info logs a message at info level.
	Info(msg any)
	// Warn logs a message at warn level.
	Warn(msg any)
	// Error logs a message at error level.
	Error(msg any)
	// Fatal logs a message at fatal level and then calls os.Exit(1).
	Fatal(msg any)

	// Debugf logs a formatted message at debug level.
	Debugf(format string, args ...any)
	// Infof logs a formatted message at info level.
	Infof(format string, args ...any)
	// Warnf logs a formatted message at warn level.
	Warnf(format string, args ...any)
	// Errorf logs a formatted message at error level.
	Errorf(format string, args ...any)
	// Fatalf logs a formatted message at fatal level and then calls os.Exit(1).
	Fatalf(format string, args ...any)

	// Warnx is a special method for easy logging errx.ErrorX instances at warn level.
	Warnx(err error)
	// Errorx is a special method for easy logging errx.ErrorX instances at error level.
	Errorx(err error)
	// Fatalx is a special method for easy logging errx.ErrorX instances at fatal level and then calls os.Exit(1).
	Fatalx(err error)

	// With creates a new logger with the given key-value pairs.
	// The returned logger inherits the properties of the original logger
	// and includes the provided key-value pairs in all subsequent log entries.
	With(keysAndValues ...any) Logger

	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	// Intended for use on application shutdown to ensure all logs are written.
	Sync() error
}

// Option configures logger construction.
type Option func(*options)

type options struct {
	output io.Writer
}

// WithOutput redirects log output. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// logger implements the Logger interface using zap's SugaredLogger.
type logger struct {
	*zap.SugaredLogger
}

// newLogger creates a new Logger with the provided configuration.
func newLogger(cfg Config, opts ...Option) (Logger, error) {
	if cfg.Disable {
		return &logger{zap.NewNop().Sugar()}, nil
	}

	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	zapConfig, err := cfg.getZapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	out := zapcore.AddSync(o.output)

	// Use custom pretty encoder for pretty mode
	if cfg.Encoding == EncodingPretty {
		return &logger{newPrettyLogger(zapConfig, out).Sugar()}, nil
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(zapConfig.EncoderConfig), out, zapConfig.Level)
	return &logger{zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr))).Sugar()}, nil
}

// New creates a new Logger instance with the provided configuration.
func New(cfg Config, opts ...Option) (Logger, error) {
	return newLogger(cfg, opts...)
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return &logger{z.Sugar()}
}

// withErrx attaches the errx.ErrorX attributes of err, if any.
func (l *logger) withErrx(err error) Logger {
	var e errx.ErrorX
	if !errors.As(err, &e) {
		return l
	}
	return l.With(
		"error_code", e.Code(),
		"error_type", e.Type().String(),
		"error_trace", e.Trace(),
		"error_fields", e.Fields(),
		"error_details", e.Details(),
	)
}

func (l *logger) Warnx(err error) {
	l.withErrx(err).Warn(err.Error())
}

func (l *logger) Errorx(err error) {
	l.withErrx(err).Error(err.Error())
}

func (l *logger) Fatalx(err error) {
	l.withErrx(err).Fatal(err.Error())
}

func (l *logger) Debug(msg any) { l.SugaredLogger.Debug(msg) }

func (l *logger) Info(msg any) { l.SugaredLogger.Info(msg) }

func (l *logger) Warn(msg any) { l.SugaredLogger.Warn(msg) }

func (l *logger) Error(msg any) { l.SugaredLogger.Error(msg) }

func (l *logger) Fatal(msg any) { l.SugaredLogger.Fatal(msg) }

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{
		SugaredLogger: l.SugaredLogger.With(keysAndValues...),
	}
}

func (l *logger) Named(name string) Logger {
	return &logger{
		SugaredLogger: l.SugaredLogger.Named(name),
	}
}
