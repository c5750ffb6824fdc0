package logger

// MultiLogger fans every message out to several backends, typically the
// zerolog console/file logger and the Windows Event Log.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger returns a logger writing to every non-nil backend. Nested
// MultiLoggers are flattened.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		switch v := l.(type) {
		case nil:
		case *MultiLogger:
			if v != nil {
				m.loggers = append(m.loggers, v.loggers...)
			}
		default:
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.loggers {
		fn(l)
	}
}

func (m *MultiLogger) Debug(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Debug(format, args...) })
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Info(format, args...) })
}

func (m *MultiLogger) Warning(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Warning(format, args...) })
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Error(format, args...) })
}

// Close closes every backend and returns the first failure.
func (m *MultiLogger) Close() error {
	var errs []error
	m.each(func(l Logger) {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	})
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

var _ Logger = (*MultiLogger)(nil)
