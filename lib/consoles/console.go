package consoles

type Console interface {
	Debugf(format string, a ...any)
	Printf(format string, a ...any)
	Warnf(format string, a ...any)
	Errorf(format string, a ...any)

	// WithPrefix returns a console that writes every message after the given
	// prefix. The original console is not changed.
	WithPrefix(format string, a ...any) Console
}
