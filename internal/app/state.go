package app

// State is a position in the bootstrap lifecycle. Transitions only move
// forward: Configuring, BootingSerialization, ResolvingMetadata, then Ready
// or Failed.
type State int

const (
	Configuring State = iota
	BootingSerialization
	ResolvingMetadata
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Configuring:
		return "Configuring"
	case BootingSerialization:
		return "BootingSerialization"
	case ResolvingMetadata:
		return "ResolvingMetadata"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}
