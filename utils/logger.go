package utils

import (
	"log"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel enumerates severity tiers.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLogLevel maps a config string onto a LogLevel, defaulting to INFO.
func ParseLogLevel(s string) LogLevel {
	for i, n := range levelNames {
		if strings.EqualFold(s, n) {
			return LogLevel(i)
		}
	}
	return INFO
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// Logger is the levelled, printf-style logger used across the pipeline.
type Logger struct {
	*zap.SugaredLogger
	file *os.File
}

var (
	globalLogger *Logger
	logMu        sync.Mutex
)

// InitLogger builds the process logger: console output on stdout, tee'd to
// logFilePath when one is given. Calling it again replaces the logger.
func InitLogger(minLevel LogLevel, logFilePath string) *Logger {
	logMu.Lock()
	defer logMu.Unlock()

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	lvl := zap.NewAtomicLevelAt(minLevel.zapLevel())

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), lvl),
	}

	var f *os.File
	if logFilePath != "" {
		var err error
		f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(f), lvl))
		} else {
			log.Printf("[WARN] could not open log file %s: %v\n", logFilePath, err)
		}
	}

	if globalLogger != nil {
		globalLogger.close()
	}
	globalLogger = &Logger{
		SugaredLogger: zap.New(zapcore.NewTee(cores...)).Sugar(),
		file:          f,
	}
	return globalLogger
}

// L returns the global logger, initialising a stdout-only one on first use.
func L() *Logger {
	logMu.Lock()
	l := globalLogger
	logMu.Unlock()
	if l == nil {
		return InitLogger(INFO, "")
	}
	return l
}

// UseLogger swaps in an existing zap logger (tests use zaptest/observer).
func UseLogger(z *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	globalLogger = &Logger{SugaredLogger: z.Sugar()}
}

// Close flushes buffered entries and closes the log file, if any.
func (l *Logger) Close() {
	logMu.Lock()
	defer logMu.Unlock()
	l.close()
}

func (l *Logger) close() {
	_ = l.Sync()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func (l *Logger) Debug(f string, a ...any) { l.Debugf(f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.Infof(f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.Warnf(f, a...) }
func (l *Logger) Error(f string, a ...any) { l.Errorf(f, a...) }
