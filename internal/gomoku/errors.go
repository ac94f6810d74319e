package gomoku

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks contract violations (bad coordinates, malformed
// boards, unknown players). "Nothing found" is never reported through it.
var ErrInvalidInput = errors.New("invalid input")

func ValidatePlayer(s Stone) error {
	if !s.IsPlayer() {
		return fmt.Errorf("%w: player %d is neither black nor white", ErrInvalidInput, s)
	}
	return nil
}

func ValidateCoord(c Coord) error {
	if !c.OnBoard() {
		return fmt.Errorf("%w: coordinate %v out of range [0,%d)", ErrInvalidInput, c, Size)
	}
	return nil
}
