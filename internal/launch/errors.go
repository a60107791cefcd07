package launch

import "github.com/cockroachdb/errors"

var (
	// ErrUnsupportedProfileKind means the profile's commandName does not
	// launch a project's build output.
	ErrUnsupportedProfileKind = errors.New("unsupported profile kind")

	// ErrBinaryUnresolved means no binary exists at the resolved location
	// even after the single build-and-retry pass.
	ErrBinaryUnresolved = errors.New("compiled binary not found")
)
