package workspace

import (
	"errors"
	"fmt"
)

// ErrFatalScan is matched by every ScanError.
var ErrFatalScan = errors.New("workspace scan failed")

// ScanError reports an explicitly configured search path that cannot be read.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("search path %s cannot be read: %v (check search_paths in your resolver config)", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFatalScan) true for any *ScanError.
func (e *ScanError) Is(target error) bool { return target == ErrFatalScan }
