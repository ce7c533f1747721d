package inputsource

import "errors"

var (
	// ErrNotFound is returned when no input source carries the requested id.
	ErrNotFound = errors.New("input source not found")
	// ErrNotSelectable is returned when the source exists but the system
	// refuses to activate it.
	ErrNotSelectable = errors.New("input source is not selectable")
	// ErrUnavailable is returned when this platform (or build) has no text
	// input service to talk to.
	ErrUnavailable = errors.New("input sources are not available")
)

// Category mirrors the category property the OS reports for a source.
type Category string

const (
	CategoryLayout      Category = "layout"
	CategoryInputMethod Category = "input-method"
	CategoryPalette     Category = "palette"
)

// Source is one keyboard input source as reported by the system: an opaque
// stable id plus the handful of properties the demo cares about.
type Source struct {
	ID         string
	Category   Category
	Name       string
	Selectable bool
	Enabled    bool
	Languages  []string
}

// Equal reports whether two sources carry the same id and properties.
func (s Source) Equal(other Source) bool {
	if s.ID != other.ID ||
		s.Category != other.Category ||
		s.Name != other.Name ||
		s.Selectable != other.Selectable ||
		s.Enabled != other.Enabled {
		return false
	}

	if len(s.Languages) != len(other.Languages) {
		return false
	}
	for i := range s.Languages {
		if s.Languages[i] != other.Languages[i] {
			return false
		}
	}

	return true
}
