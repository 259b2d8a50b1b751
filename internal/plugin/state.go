package plugin

// State represents the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateUnloaded - Plugin is constructed but not loaded, or was unloaded.
	StateUnloaded State = iota

	// StateActive - Plugin is loaded and serving the host.
	StateActive
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}
