package datastore

import (
	"errors"
	"fmt"
)

// Slot is a named key/value persistence medium. Get on a missing key
// returns a NoRowsError.
type Slot interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

type NoRowsError struct {
	NoRows bool
	Err    error
}

func (nr NoRowsError) Error() string {
	return fmt.Sprintf("%v: no rows returned for scan: %v", nr.NoRows, nr.Err)
}

func (nr NoRowsError) Unwrap() error {
	return nr.Err
}

// IsNoRows reports whether err means the key holds nothing
func IsNoRows(err error) bool {
	var nr NoRowsError
	return errors.As(err, &nr) && nr.NoRows
}

var errEmptyKey = errors.New("slot key is required")
