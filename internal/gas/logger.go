package gas

// Logger is the logging capability injected into a Simulation.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(format string, v ...any) {}
func (NopLogger) Infof(format string, v ...any)  {}
func (NopLogger) Warnf(format string, v ...any)  {}
func (NopLogger) Errorf(format string, v ...any) {}
