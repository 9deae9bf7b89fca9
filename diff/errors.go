// ABOUTME: Sentinel and typed errors for version fetching and comparison.
// ABOUTME: FetchError names the version that failed and unwraps to the fetcher's cause.

package diff

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingVersionID indicates a comparison was requested without both version IDs.
	ErrMissingVersionID = errors.New("both version ids are required")

	// ErrNilVersion indicates a fetcher returned neither a version nor an error.
	ErrNilVersion = errors.New("fetcher returned no version")
)

// FetchError indicates a version could not be loaded, so no diff was produced.
type FetchError struct {
	VersionID string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch version %s: %v", e.VersionID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
