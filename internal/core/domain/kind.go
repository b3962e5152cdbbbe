package domain

import "errors"

// Kind is the stable identifier reported in a failed task result.
type Kind string

// Failure kinds reported to callers.
const (
	KindUnsupportedPlatform Kind = "agentup/unsupported-platform"
	KindInvalidVersion      Kind = "agentup/invalid-version"
	KindVersionNotFound     Kind = "agentup/version-not-found"
	KindCollectionEmpty     Kind = "agentup/collection-empty"
	KindMajorVersionSkip    Kind = "agentup/major-version-skip"
	KindServiceRunning      Kind = "agentup/service-running"
	KindServiceStopFailed   Kind = "agentup/service-stop-failed"
	KindInstallError        Kind = "agentup/install-error"
	KindVerificationFailed  Kind = "agentup/verification-failed"
	KindCatalogError        Kind = "agentup/catalog-error"
	KindStateError          Kind = "agentup/state-error"
	KindConfigError         Kind = "agentup/config-error"
	KindParameterError      Kind = "agentup/parameter-error"
	KindUnknown             Kind = "agentup/unknown"
)

var kindTable = []struct {
	sentinel error
	kind     Kind
}{
	{ErrUnsupportedPlatform, KindUnsupportedPlatform},
	{ErrInvalidVersion, KindInvalidVersion},
	{ErrUnknownCollection, KindInvalidVersion},
	{ErrVersionOutsideCollection, KindInvalidVersion},
	{ErrVersionNotFound, KindVersionNotFound},
	{ErrCollectionEmpty, KindCollectionEmpty},
	{ErrMajorVersionSkip, KindMajorVersionSkip},
	{ErrServiceRunning, KindServiceRunning},
	{ErrServiceStopFailed, KindServiceStopFailed},
	{ErrVerificationFailed, KindVerificationFailed},
	{ErrInstallFailed, KindInstallError},
	{ErrPackageManagerLocked, KindInstallError},
	{ErrArtifactFetchFailed, KindInstallError},
	{ErrCatalogFetchFailed, KindCatalogError},
	{ErrCatalogParseFailed, KindCatalogError},
	{ErrStateReadFailed, KindStateError},
	{ErrServiceQueryFailed, KindStateError},
	{ErrConfigNotFound, KindConfigError},
	{ErrConfigInvalid, KindConfigError},
	{ErrUnknownTask, KindParameterError},
	{ErrInvalidParameters, KindParameterError},
}

// KindOf maps an error to its failure kind. Table order wins over chain depth,
// so a wrapped verification failure is not reported as the install error it wraps.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, entry := range kindTable {
		if Matches(err, entry.sentinel) {
			return entry.kind
		}
	}
	return KindUnknown
}

// metadataCarrier matches zerr.Error's Metadata accessor.
type metadataCarrier interface {
	Metadata() map[string]any
}

// Matches reports whether sentinel appears in err's chain. Errors must carry
// the sentinel itself (via With, Wrap or zerr.Wrap); matching text is not enough.
func Matches(err, sentinel error) bool {
	return errors.Is(err, sentinel)
}

// Details collects metadata attached anywhere in the error chain.
// Outer values win over inner values for the same key.
func Details(err error) map[string]any {
	details := make(map[string]any)
	for current := err; current != nil; current = errors.Unwrap(current) {
		carrier, ok := current.(metadataCarrier)
		if !ok {
			continue
		}
		for k, v := range carrier.Metadata() {
			if _, exists := details[k]; !exists {
				details[k] = v
			}
		}
	}
	return details
}
