package pathsolver

import "errors"

// Status hasil dari satu step / solve.
type Status int

const (
	StillComputing Status = iota
	SolutionFound
	NoSolution
	// NotConfigured start atau end belum di set. Dibedakan dari NoSolution supaya caller
	// tidak salah mengira goal unreachable.
	NotConfigured
)

var ErrSearchInProgress = errors.New("search already started, reset the solver before changing endpoints")

func (s Status) String() string {
	switch s {
	case StillComputing:
		return "STILL_COMPUTING"
	case SolutionFound:
		return "SOLUTION_FOUND"
	case NoSolution:
		return "NO_SOLUTION"
	case NotConfigured:
		return "NOT_CONFIGURED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal true kalau step berikutnya tidak akan mengubah state.
func (s Status) IsTerminal() bool {
	return s == SolutionFound || s == NoSolution
}
