package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"letme_backend/internals/configs"
)

var (
	loggers   = make(map[string]*logrus.Logger)
	loggersMu sync.Mutex

	config *configs.LogConfig
)

// Init menyimpan konfigurasi dan menyiapkan folder log (kalau output ke file).
func Init(cfg *configs.LogConfig) error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if cfg == nil {
		cfg = &configs.LogConfig{Level: "info", Format: "text", Output: "stdout"}
	}
	config = cfg
	loggers = make(map[string]*logrus.Logger)

	if writesFile() {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}
	return nil
}

func GetAppLogger() *logrus.Logger   { return GetLogger("app") }
func GetAuditLogger() *logrus.Logger { return GetLogger("audit") }

// GetLogger mengembalikan logger bernama (app, audit, sql).
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		config = &configs.LogConfig{Level: "info", Format: "text", Output: "stdout"}
	}
	if l, ok := loggers[name]; ok {
		return l
	}
	l := createLogger(name)
	loggers[name] = l
	return l
}

func writesFile() bool {
	return config != nil && (config.Output == "file" || config.Output == "both")
}

func createLogger(name string) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if config.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				return s[len(s)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	var writers []io.Writer
	if config.Output != "file" {
		writers = append(writers, os.Stdout)
	}
	if writesFile() {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(config.Path, name+".log"),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	switch len(writers) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(writers[0])
	default:
		l.SetOutput(io.MultiWriter(writers...))
	}
	return l
}

// WithModule entry logger app dengan field module.
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}
