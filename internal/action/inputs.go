package action

import (
	"strconv"
	"time"
)

// Inputs holds the recognized step inputs after defaulting.
type Inputs struct {
	// Version is the k0s release tag to install, or "latest".
	Version string

	// WaitForReady enables the readiness poller after startup.
	WaitForReady bool

	// Timeout is the readiness poller deadline.
	Timeout time.Duration

	// ConfigPath optionally points at a k0s configuration file passed to
	// the controller at install time.
	ConfigPath string
}

// LoadInputs overlays step inputs on the given defaults. A default is
// replaced only when the corresponding input is actually present, so flag
// values survive when the tool runs outside a runner.
func (c *Context) LoadInputs(defaults Inputs) Inputs {
	in := defaults
	in.Version = c.stringInput("version", in.Version)
	in.WaitForReady = c.boolInput("wait-for-ready", in.WaitForReady)
	in.Timeout = c.secondsInput("timeout", in.Timeout)
	in.ConfigPath = c.stringInput("config", in.ConfigPath)
	return in
}

func (c *Context) stringInput(name, defaultVal string) string {
	if val := c.Input(name); val != "" {
		return val
	}
	return defaultVal
}

func (c *Context) boolInput(name string, defaultVal bool) bool {
	val := c.Input(name)
	if val == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		c.Warningf("input %s: %q is not a boolean, using %v", name, val, defaultVal)
		return defaultVal
	}
	return b
}

func (c *Context) secondsInput(name string, defaultVal time.Duration) time.Duration {
	val := c.Input(name)
	if val == "" {
		return defaultVal
	}

	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		c.Warningf("input %s: %q is not a second count, using %s", name, val, defaultVal)
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
