package domain

import "go.trai.ch/zerr"

var (
	// ErrUnsupportedPlatform is returned when the OS/version combination has no known package-manager mapping.
	ErrUnsupportedPlatform = zerr.New("unsupported platform")

	// ErrInvalidVersion is returned when a requested version is not a 3-part semantic version.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrUnknownCollection is returned when a collection name does not name a known channel.
	ErrUnknownCollection = zerr.New("unknown collection")

	// ErrVersionOutsideCollection is returned when an exact version's major does not belong to the collection.
	ErrVersionOutsideCollection = zerr.New("version does not belong to collection")

	// ErrVersionNotFound is returned when the catalog has no package for the requested version.
	ErrVersionNotFound = zerr.New("version not found")

	// ErrCollectionEmpty is returned when the catalog has no packages for the collection and platform.
	ErrCollectionEmpty = zerr.New("collection has no packages for this platform")

	// ErrMajorVersionSkip is returned when an upgrade would skip a major version.
	ErrMajorVersionSkip = zerr.New("upgrade would skip a major version")

	// ErrServiceRunning is returned when a blocking service is running before an in-place upgrade.
	ErrServiceRunning = zerr.New("Puppet Agent upgrade cannot be done while Puppet services are still running.")

	// ErrServiceStopFailed is returned when a service does not reach the stopped state.
	ErrServiceStopFailed = zerr.New("service failed to stop")

	// ErrServiceQueryFailed is returned when a service manager cannot be queried.
	ErrServiceQueryFailed = zerr.New("failed to query service")

	// ErrInstallFailed is returned when the package manager reports a failure.
	ErrInstallFailed = zerr.New("package installation failed")

	// ErrPackageManagerLocked is returned when the package manager lock is held by another process.
	ErrPackageManagerLocked = zerr.New("package manager is locked by another process")

	// ErrVerificationFailed is returned when the post-install check does not match the resolved version.
	ErrVerificationFailed = zerr.New("post-install verification failed")

	// ErrStateReadFailed is returned when the installed state cannot be queried.
	ErrStateReadFailed = zerr.New("failed to read installed state")

	// ErrCatalogFetchFailed is returned when a catalog index cannot be fetched.
	ErrCatalogFetchFailed = zerr.New("failed to fetch catalog index")

	// ErrCatalogParseFailed is returned when a catalog index cannot be decoded.
	ErrCatalogParseFailed = zerr.New("failed to parse catalog index")

	// ErrCatalogCacheFailed is returned when the catalog cache cannot be written.
	ErrCatalogCacheFailed = zerr.New("failed to write catalog cache")

	// ErrArtifactFetchFailed is returned when a package artifact cannot be downloaded.
	ErrArtifactFetchFailed = zerr.New("failed to fetch package artifact")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCommandNotFound is returned when an external command is not on PATH.
	ErrCommandNotFound = zerr.New("command not found")

	// ErrConfigNotFound is returned when an explicitly requested configuration file does not exist.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrConfigInvalid is returned when the configuration fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrUnknownTask is returned when the task command names an unknown task.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrInvalidParameters is returned when task parameters cannot be decoded.
	ErrInvalidParameters = zerr.New("invalid task parameters")

	// ErrTaskFailed is returned by commands whose failure was already reported as a task result.
	ErrTaskFailed = zerr.New("task failed")
)

// With attaches metadata to sentinel. Unlike zerr.With on the sentinel itself,
// the result still satisfies errors.Is(err, sentinel).
func With(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}

// Wrap marks cause with sentinel. The result renders as "sentinel: cause" and
// satisfies errors.Is for both.
func Wrap(cause, sentinel error) error {
	if cause == nil {
		return nil
	}
	return &markedError{sentinel: sentinel, cause: cause}
}

type markedError struct {
	sentinel error
	cause    error
}

func (e *markedError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

// Message returns the sentinel text alone, like zerr.Error.Message.
func (e *markedError) Message() string {
	return e.sentinel.Error()
}

func (e *markedError) Unwrap() error {
	return e.cause
}

func (e *markedError) Is(target error) bool {
	return target == e.sentinel
}
