package launchsettings

import "github.com/cockroachdb/errors"

var (
	// ErrFileNotFound means the project has no launch settings file at
	// either conventional location.
	ErrFileNotFound = errors.New("launch settings file not found")

	// ErrProfileNotFound means the file exists but has no profile with the
	// requested name.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrMalformed means the file exists but is not valid JSON.
	ErrMalformed = errors.New("malformed launch settings")
)
