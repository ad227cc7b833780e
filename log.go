// Package zephyr holds the interfaces shared across the controller
// packages, and the logging scaffold they report through.
package zephyr

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface the controller packages report through:
// per-PDU traces at debug, dropped work at warn. Protocol faults are
// returned to the caller as errors, not logged. Embeddings swap in their
// own implementation with SetLogger before bringing up the stack.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})

	ChildLogger(tags map[string]interface{}) Logger
}

var (
	loggerMu sync.Mutex
	logger   Logger
)

func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func GetLogger() Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if logger == nil {
		logger = newDefaultLogger()
	}

	return logger
}

// SetLogDebug raises the default logger to debug level so the engines'
// per-PDU traces become visible. Once a replacement logger is installed
// it leaves the level unchanged and reports that at error level on the
// replacement logger.
func SetLogDebug() {
	l := GetLogger()

	if lg, ok := l.(*defaultLogger); ok {
		lg.Entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.Errorf("non-default logger, don't know how to set level")
	}
}

type defaultLogger struct {
	*logrus.Entry
}

func newDefaultLogger() Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)

	return &defaultLogger{Entry: logrus.NewEntry(l)}
}

func (d *defaultLogger) ChildLogger(ff map[string]interface{}) Logger {
	return &defaultLogger{d.Entry.WithFields(ff)}
}
