/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package common

import (
	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts a logrus logger to the Logger interface, for callers
// that already route their application logs through logrus.
type LogrusLogger struct {
	logger *logrus.Logger
}

// NewLogrusLogger returns a Logger backed by `logger`.
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{logger: logger}
}

// Error logs error message.
func (l *LogrusLogger) Error(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

// Warning logs warning message.
func (l *LogrusLogger) Warning(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

// Notice logs notice message at logrus info level.
func (l *LogrusLogger) Notice(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

// Info logs info message.
func (l *LogrusLogger) Info(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

// Debug logs debug message.
func (l *LogrusLogger) Debug(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

// Trace logs trace message.
func (l *LogrusLogger) Trace(format string, args ...interface{}) {
	l.logger.Tracef(format, args...)
}

// IsLogLevel returns true if the backing logrus logger emits at `level`.
func (l *LogrusLogger) IsLogLevel(level LogLevel) bool {
	switch level {
	case LogLevelTrace:
		return l.logger.IsLevelEnabled(logrus.TraceLevel)
	case LogLevelDebug:
		return l.logger.IsLevelEnabled(logrus.DebugLevel)
	case LogLevelInfo, LogLevelNotice:
		return l.logger.IsLevelEnabled(logrus.InfoLevel)
	case LogLevelWarning:
		return l.logger.IsLevelEnabled(logrus.WarnLevel)
	default:
		return l.logger.IsLevelEnabled(logrus.ErrorLevel)
	}
}
