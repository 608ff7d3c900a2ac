package tagging

import "fmt"

type constError string

func (errStr constError) Error() string { return string(errStr) }

// Precondition failures reported by replacement policies.
const (
	ErrInvalidSetIndex = constError("invalid set index")
	ErrInvalidWayIndex = constError("invalid way index")
)

// CheckSetIndex returns ErrInvalidSetIndex if setID is outside [0, numSets).
func CheckSetIndex(setID, numSets int) error {
	if setID < 0 || setID >= numSets {
		return fmt.Errorf("%w: %d not in [0, %d)",
			ErrInvalidSetIndex, setID, numSets)
	}

	return nil
}

// CheckWayIndex returns ErrInvalidWayIndex if wayID is outside [0, numWays).
func CheckWayIndex(wayID, numWays int) error {
	if wayID < 0 || wayID >= numWays {
		return fmt.Errorf("%w: %d not in [0, %d)",
			ErrInvalidWayIndex, wayID, numWays)
	}

	return nil
}
