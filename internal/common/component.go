package common

import (
	"busdecode/internal/bus"
)

// AttachPt is a generic component attachment point. The zero value is
// disabled; owners enable it when they initialize.
// T represents the interface type being attached.
type AttachPt[T any] struct {
	enabled     bool
	hasAttached bool
	comp        T
}

// Attach attaches an interface of type T to the attachment point.
func (a *AttachPt[T]) Attach(comp T) bus.Err {
	if a.hasAttached {
		return bus.ErrAttachTooMany
	}
	a.comp = comp
	a.hasAttached = true
	return bus.OK
}

// Detach detaches the current component from the attachment point.
func (a *AttachPt[T]) Detach() bus.Err {
	if !a.hasAttached {
		return bus.ErrAttachNotFound
	}
	var empty T
	a.comp = empty
	a.hasAttached = false
	return bus.OK
}

// First returns the current attached interface.
// The caller should check HasAttachedAndEnabled before using it.
func (a *AttachPt[T]) First() T {
	if !a.enabled {
		var empty T
		return empty
	}
	return a.comp
}

// Enabled returns true if the attachment point is enabled.
func (a *AttachPt[T]) Enabled() bool {
	return a.enabled
}

// SetEnabled sets the enabled state.
func (a *AttachPt[T]) SetEnabled(enable bool) {
	a.enabled = enable
}

// HasAttached returns true if there is an attached interface.
func (a *AttachPt[T]) HasAttached() bool {
	return a.hasAttached
}

// HasAttachedAndEnabled returns true if there is an attachment and it is enabled.
func (a *AttachPt[T]) HasAttachedAndEnabled() bool {
	return a.hasAttached && a.enabled
}

// Component is the base struct for decode components. It provides a name and
// a logger attachment point, and filters messages by verbosity.
type Component struct {
	name         string
	logger       AttachPt[Logger]
	errVerbosity bus.ErrSeverity
}

// InitComponent initializes a Component. This is favored over a constructor
// so it can be safely embedded and initialized in place.
func (c *Component) InitComponent(name string) {
	c.name = name
	c.errVerbosity = bus.ErrSevWarn
	c.logger.enabled = true
}

// ComponentName returns the component's name.
func (c *Component) ComponentName() string {
	return c.name
}

// LoggerAttachPt returns the logger attachment point.
func (c *Component) LoggerAttachPt() *AttachPt[Logger] {
	return &c.logger
}

// LogError logs err if a logger is attached and err is within verbosity.
func (c *Component) LogError(err *Error) {
	if err.Sev > c.errVerbosity || !c.logger.HasAttachedAndEnabled() {
		return
	}
	l := c.logger.First()
	switch err.Sev {
	case bus.ErrSevError:
		l.Error(err)
	case bus.ErrSevWarn:
		l.Warning(err.Error())
	default:
		l.Info(err.Error())
	}
}

// LogDebug logs a debug message if a logger is attached.
func (c *Component) LogDebug(format string, args ...interface{}) {
	if c.logger.HasAttachedAndEnabled() {
		c.logger.First().Logf(SeverityDebug, c.name+": "+format, args...)
	}
}

// SetErrorLogLevel sets the most verbose severity LogError passes on. Levels
// outside Error..Info leave the current setting alone.
func (c *Component) SetErrorLogLevel(level bus.ErrSeverity) {
	if level >= bus.ErrSevError && level <= bus.ErrSevInfo {
		c.errVerbosity = level
	}
}
