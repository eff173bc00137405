package app

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/pkg/logger"
)

// loggerSet 具名日志集合，创建后只读
type loggerSet map[string]logger.Logger

func newLoggerSet(cfgs map[string]*logger.Config) (loggerSet, error) {
	s := make(loggerSet, len(cfgs))
	for name, cfg := range cfgs {
		if cfg == nil {
			continue
		}
		l, err := logger.New(cfg)
		if err != nil {
			s.sync()
			return nil, errors.Wrapf(err, "named logger %q", name)
		}
		s[name] = l.Named(name)
	}
	return s, nil
}

func (s loggerSet) sync() {
	for _, l := range s {
		_ = l.Sync()
	}
}
