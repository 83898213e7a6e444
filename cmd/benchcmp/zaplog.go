package main

import (
	"sort"

	"github.com/speakeasy-api/namedtree"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger adapts a zap logger to namedtree.Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func newZapLogger(l *zap.Logger) namedtree.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{s: l.Sugar()}
}

func (l *zapLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

func (l *zapLogger) With(fields map[string]any) namedtree.Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &zapLogger{s: l.s.With(kv...)}
}

func zapLevel(level namedtree.LogLevel) zapcore.Level {
	switch level {
	case namedtree.LevelError:
		return zapcore.ErrorLevel
	case namedtree.LevelInfo:
		return zapcore.InfoLevel
	case namedtree.LevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.WarnLevel
	}
}
