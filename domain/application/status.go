package application

// Status is one stage of the application pipeline. The declaration order
// below is the board order used for one-step Kanban moves.
type Status string

const (
	StatusSaved     Status = "saved"
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
)

// statusOrder is the fixed progression for AdvanceStatus. SetStatus ignores
// it; any-to-any jumps are allowed there.
var statusOrder = []Status{
	StatusSaved,
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusRejected,
}

// Direction selects which neighbour AdvanceStatus moves to.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// Valid reports whether s is a member of the pipeline enumeration.
func (s Status) Valid() bool {
	return s.index() >= 0
}

// Step returns the adjacent status in the given direction. At either end of
// the order there is no wraparound and ok is false.
func (s Status) Step(dir Direction) (Status, bool) {
	i := s.index()
	if i < 0 {
		return s, false
	}
	switch dir {
	case DirectionForward:
		i++
	case DirectionBackward:
		i--
	default:
		return s, false
	}
	if i < 0 || i >= len(statusOrder) {
		return s, false
	}
	return statusOrder[i], true
}

func (s Status) index() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Statuses returns the pipeline order, first to last.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}
