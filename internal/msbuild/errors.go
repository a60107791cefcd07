package msbuild

import "github.com/cockroachdb/errors"

// Sentinel errors for the two subprocess failure kinds. Query failures are
// recoverable (the resolver falls through to its next tier); build failures
// surface to the user.
var (
	// ErrQueryFailed marks property-query invocations that produced no
	// usable output: non-zero exit, timeout, or a missing tool.
	ErrQueryFailed = errors.New("property query failed")

	// ErrBuildFailed marks build invocations that did not complete
	// successfully.
	ErrBuildFailed = errors.New("build failed")
)
