// Package action is the CI-runner surface of the tool: step inputs, step
// outputs, exported environment, the cross-phase run marker, and grouped
// log output. It wraps the workflow-command protocol and degrades to plain
// logging when the tool runs outside a runner.
package action

import (
	"log"
	"os"

	"github.com/sethvargo/go-githubactions"
)

// Context gives handlers access to the runner's command surface.
type Context struct {
	gha *githubactions.Action
}

// New returns a Context bound to the current process environment.
func New() *Context {
	return &Context{gha: githubactions.New()}
}

// Input returns the raw value of a step input, or "" when unset.
func (c *Context) Input(name string) string {
	return c.gha.GetInput(name)
}

// SetOutput publishes a step output for downstream steps. Outside a runner
// the value is only logged.
func (c *Context) SetOutput(name, value string) {
	if os.Getenv("GITHUB_OUTPUT") == "" {
		log.Printf("output %s=%s", name, value)
		return
	}
	c.gha.SetOutput(name, value)
}

// ExportEnv exports an environment variable to later steps and to the
// current process.
func (c *Context) ExportEnv(name, value string) {
	if err := os.Setenv(name, value); err != nil {
		c.Warningf("exporting %s to current process: %v", name, err)
	}
	if os.Getenv("GITHUB_ENV") == "" {
		log.Printf("export %s=%s", name, value)
		return
	}
	c.gha.SetEnv(name, value)
}

// Group runs fn inside a collapsible log group.
func (c *Context) Group(title string, fn func() error) error {
	c.gha.Group(title)
	defer c.gha.EndGroup()
	return fn()
}

// Infof logs an informational line.
func (c *Context) Infof(format string, args ...any) {
	c.gha.Infof(format, args...)
}

// Warningf logs a warning annotation.
func (c *Context) Warningf(format string, args ...any) {
	c.gha.Warningf(format, args...)
}

// Errorf logs an error annotation.
func (c *Context) Errorf(format string, args ...any) {
	c.gha.Errorf(format, args...)
}

// saveState persists a key for the paired post phase. Outside a runner the
// marker is only logged; the post phase then sees it as unset.
func (c *Context) saveState(name, value string) {
	if os.Getenv("GITHUB_STATE") == "" {
		log.Printf("state %s=%s", name, value)
		return
	}
	c.gha.SaveState(name, value)
}

// state reads a key saved by the main phase. The runner hands saved state
// to the post phase as STATE_<name> environment variables.
func (c *Context) state(name string) string {
	return os.Getenv("STATE_" + name)
}
