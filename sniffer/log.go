package sniffer

import "github.com/sirupsen/logrus"

// debugEnabled reports whether log emits debug entries. The receive path
// checks it before building fields.
func debugEnabled(log logrus.FieldLogger) bool {
	switch l := log.(type) {
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	}
	return true
}
