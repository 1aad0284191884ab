// Package log is the process-wide logrus logger.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

type Level = logrus.Level

const (
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

type Fields = logrus.Fields

var Logger = logrus.New()

var textFormat = &logrus.TextFormatter{
	DisableLevelTruncation: true,
	PadLevelText:           true,
	TimestampFormat:        "2006/01/02 15:04:05",
	FullTimestamp:          true,
}

func init() {
	Logger.Formatter = textFormat
}

// Setup sets the minimum level and switches between the console format
// and one JSON object per line.
func Setup(level Level, json bool) {
	Logger.SetLevel(level)
	if json {
		Logger.Formatter = &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	} else {
		Logger.Formatter = textFormat
	}
}

func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

func IsDebug() bool {
	return Logger.IsLevelEnabled(DebugLevel)
}

func WithFields(fields Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

func Log(level Level, args ...any) {
	Logger.Logln(level, args...)
}

func Debugf(format string, args ...any) { Logger.Debugf(format, args...) }
func Infof(format string, args ...any)  { Logger.Infof(format, args...) }
func Warnf(format string, args ...any)  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...any) { Logger.Errorf(format, args...) }

func Info(args ...any)  { Logger.Infoln(args...) }
func Fatal(args ...any) { Logger.Fatalln(args...) }
