package discovery

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoData means the data directory is missing or holds no files.
	ErrNoData   = errors.New("data directory is missing or empty")
	ErrNotFound = errors.New("no sprite atlas found")
	ErrChecksum = errors.New("discovery cache checksum mismatch")
)

type (
	// ScanError reports a scan that found nothing, with the files it could
	// not read.
	ScanError struct {
		Name   string
		Failed int
		Total  int
		Cause  error
	}
)

func (r ScanError) Error() string {
	return fmt.Sprintf(`scan for "%s": %v (%d/%d files unreadable)`, r.Name, r.Cause, r.Failed, r.Total)
}

func (r ScanError) Unwrap() error {
	return r.Cause
}
