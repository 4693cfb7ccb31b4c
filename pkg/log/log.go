package log

import (
	"github.com/sirupsen/logrus"
)

func InitLogs() *logrus.Logger {
	log := logrus.New()

	log.SetReportCaller(true)

	return log
}

// WithKind returns a logger tagged with the entity kind it operates on.
func WithKind(kind string, inner logrus.FieldLogger) logrus.FieldLogger {
	return inner.WithField("kind", kind)
}
