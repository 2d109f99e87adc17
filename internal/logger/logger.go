package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"
)

// LogLevel represents the severity level of a log message
type LogLevel int

// Log levels
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// backendLevels maps log levels to go-logging levels
var backendLevels = map[LogLevel]logging.Level{
	DEBUG: logging.DEBUG,
	INFO:  logging.INFO,
	WARN:  logging.WARNING,
	ERROR: logging.ERROR,
	FATAL: logging.CRITICAL,
}

const (
	plainFormat = `%{time:2006/01/02 15:04:05} [%{level:.5s}] %{module} %{shortfile}: %{message}`
	colorFormat = `%{color}%{time:2006/01/02 15:04:05} [%{level:.5s}] %{module} %{shortfile}:%{color:reset} %{message}`
)

// Logger handles logging functionalities
type Logger struct {
	level     LogLevel
	module    string
	log       *logging.Logger
	out       io.Writer
	file      *os.File
	useColors bool
}

// ParseLevel converts a textual level to a LogLevel, defaulting to INFO
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// NewLogger creates a new logger with the specified log level
func NewLogger(levelStr string) *Logger {
	l := &Logger{
		level:     ParseLevel(levelStr),
		module:    "netherbox",
		out:       os.Stdout,
		useColors: true,
	}

	// Disable colors if not in a terminal
	if fileInfo, err := os.Stdout.Stat(); err != nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		l.useColors = false
	}

	l.log = logging.MustGetLogger(l.module)
	l.log.ExtraCalldepth = 1
	l.rebuild()

	return l
}

// NewFileLogger creates a new logger that writes to a file
func NewFileLogger(levelStr, filePath string) (*Logger, error) {
	file, err := openLogFile(filePath)
	if err != nil {
		return nil, err
	}

	l := NewLogger(levelStr)
	l.file = file
	l.out = file
	l.useColors = false
	l.rebuild()

	return l, nil
}

// NewMultiLogger creates a logger that writes to both console and file
func NewMultiLogger(levelStr, filePath string) (*Logger, error) {
	file, err := openLogFile(filePath)
	if err != nil {
		return nil, err
	}

	l := NewLogger(levelStr)
	l.file = file
	l.out = io.MultiWriter(os.Stdout, file)
	l.useColors = false
	l.rebuild()

	return l, nil
}

func openLogFile(filePath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}
	return file, nil
}

// rebuild installs a fresh backend for the current output, colors and level
func (l *Logger) rebuild() {
	format := plainFormat
	if l.useColors {
		format = colorFormat
	}

	backend := logging.NewLogBackend(l.out, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(format))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(backendLevels[l.level], l.module)

	l.log.SetBackend(leveled)
}

// Module returns a child logger sharing output and level under another module name
func (l *Logger) Module(name string) *Logger {
	child := &Logger{
		level:     l.level,
		module:    name,
		out:       l.out,
		useColors: l.useColors,
	}
	child.log = logging.MustGetLogger(name)
	child.log.ExtraCalldepth = 1
	child.rebuild()
	return child
}

// Debug logs a debug message
func (l *Logger) Debug(v ...interface{}) {
	l.log.Debug(fmt.Sprint(v...))
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.log.Debugf(format, v...)
}

// Info logs an info message
func (l *Logger) Info(v ...interface{}) {
	l.log.Info(fmt.Sprint(v...))
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(v ...interface{}) {
	l.log.Warning(fmt.Sprint(v...))
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.log.Warningf(format, v...)
}

// Error logs an error message
func (l *Logger) Error(v ...interface{}) {
	l.log.Error(fmt.Sprint(v...))
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(v ...interface{}) {
	l.log.Critical(fmt.Sprint(v...))
	l.Close()
	os.Exit(1)
}

// Fatalf logs a formatted fatal message and exits the program
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.log.Criticalf(format, v...)
	l.Close()
	os.Exit(1)
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// SetLevel sets the log level
func (l *Logger) SetLevel(levelStr string) {
	l.level = ParseLevel(levelStr)
	l.rebuild()
}

// SetOutput sets the output writer for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
	l.rebuild()
}

// EnableColors enables or disables colored output
func (l *Logger) EnableColors(enable bool) {
	l.useColors = enable
	l.rebuild()
}

// Close closes the logger's file if it exists
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
