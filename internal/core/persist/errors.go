package persist

import "fmt"

// StorageError reports a failed load or save.
type StorageError struct {
	Op  string
	Err error
}

func (err *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", err.Op, err.Err)
}

func (err *StorageError) Unwrap() error {
	return err.Err
}
