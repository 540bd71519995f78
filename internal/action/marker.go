package action

// markerKey is the cross-phase run marker. It is saved unconditionally at
// the start of the main phase so the teardown phase always runs, even when
// installation fails partway through.
const markerKey = "setup-started"

// MarkSetupStarted persists the run marker. Written exactly once per run,
// before any installation work.
func (c *Context) MarkSetupStarted() {
	c.saveState(markerKey, "true")
}

// SetupStarted reports whether the main phase recorded the run marker.
// Read by the teardown phase; unset means the main phase never began.
func (c *Context) SetupStarted() bool {
	return c.state(markerKey) == "true"
}
