package clog

import (
	"io"
	"os"
	"sync"

	"github.com/apex/log"
)

// ContextLogger hands out apex log entries tagged with a service context
// ("feed", "webapi", "console", ...). Contexts without their own logger fall
// through to the global logger.
type ContextLogger struct {
	global  *log.Logger
	mu      sync.RWMutex
	loggers map[string]*log.Logger
}

func NewContextLogger(w io.Writer) *ContextLogger {
	return &ContextLogger{
		global: &log.Logger{
			Handler: NewHandler(w),
			Level:   log.InfoLevel,
		},
		loggers: make(map[string]*log.Logger),
	}
}

func (l *ContextLogger) AddLoggingContext(ctx string, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loggers[ctx] = &log.Logger{
		Handler: NewHandler(w),
		Level:   l.global.Level,
	}
}

func (l *ContextLogger) SetGlobalLoggerLevel(level log.Level) {
	l.global.Level = level
}

func (l *ContextLogger) SetGlobalLoggerLevelFromString(s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}
	l.SetGlobalLoggerLevel(level)
	return nil
}

func (l *ContextLogger) UsingCtx(ctx string) *log.Entry {
	l.mu.RLock()
	logger, ok := l.loggers[ctx]
	l.mu.RUnlock()
	if !ok {
		logger = l.global
	}
	return logger.WithField("ctx", ctx)
}

func (l *ContextLogger) Global() *log.Entry {
	return l.global.WithField("ctx", "global")
}

var clogger = NewContextLogger(os.Stdout)

func AddLoggingContext(ctx string, w io.Writer) {
	clogger.AddLoggingContext(ctx, w)
}

func SetGlobalLoggerLevel(level log.Level) {
	clogger.SetGlobalLoggerLevel(level)
}

func SetGlobalLoggerLevelFromString(s string) error {
	return clogger.SetGlobalLoggerLevelFromString(s)
}

func UsingCtx(ctx string) *log.Entry {
	return clogger.UsingCtx(ctx)
}

func Global() *log.Entry {
	return clogger.Global()
}
