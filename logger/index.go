package logger

import "github.com/avicd/go-utilx/logx"

var logger logx.Logger

func init() {
	logger = logx.Default()
}

func IsDebug() bool {
	return logx.DEBUG >= logger.GetLevel()
}

func Use(nlog logx.Logger) {
	logger = nlog
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

func Fatal(args ...any) {
	logger.Fatal(args...)
}

func Fatalf(format string, args ...any) {
	logger.Fatalf(format, args...)
}

// Scope prefixes every message with the name of a component, e.g.
// "[scraper] fetched /player/12".
type Scope string

func (it Scope) Debugf(format string, args ...any) {
	logger.Debugf("["+string(it)+"] "+format, args...)
}

func (it Scope) Infof(format string, args ...any) {
	logger.Infof("["+string(it)+"] "+format, args...)
}

func (it Scope) Warnf(format string, args ...any) {
	logger.Warnf("["+string(it)+"] "+format, args...)
}

func (it Scope) Errorf(format string, args ...any) {
	logger.Errorf("["+string(it)+"] "+format, args...)
}
