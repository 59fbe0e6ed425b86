package programmer

import (
	"fmt"
)

// MismatchError indicates that EEPROM contents differ from the expected data.
type MismatchError struct {
	Address  uint32
	Expected byte
	Actual   byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verification failed at 0x%06X: expected 0x%02X, got 0x%02X",
		e.Address, e.Expected, e.Actual)
}
