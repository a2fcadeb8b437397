package game

// Status reports how an entity responded to a command addressed to it.
type Status uint8

const (
	// Declined means the entity did not recognise the command.
	Declined Status = iota
	// Handled means the entity recognised and completed the command.
	Handled
	// Errored means the entity recognised the command but could not finish it.
	Errored
)

func (s Status) String() string {
	switch s {
	case Handled:
		return "handled"
	case Errored:
		return "errored"
	default:
		return "declined"
	}
}

// Result is returned from entity command interpretation.
type Result struct {
	Status Status
	Err    error
}

var (
	handled  = Result{Status: Handled}
	declined = Result{Status: Declined}
)

func failed(err error) Result {
	return Result{Status: Errored, Err: err}
}

// Handled reports whether the command was consumed.
func (r Result) Handled() bool {
	return r.Status == Handled
}
