package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "bare sentinel", err: domain.ErrUnsupportedPlatform, want: domain.KindUnsupportedPlatform},
		{name: "annotated sentinel", err: domain.With(domain.ErrServiceRunning, "service", "puppet"), want: domain.KindServiceRunning},
		{name: "wrapped sentinel", err: zerr.Wrap(domain.ErrCollectionEmpty, "resolve"), want: domain.KindCollectionEmpty},
		{
			name: "verification wins over install",
			err:  domain.Wrap(zerr.Wrap(domain.ErrInstallFailed, "apt"), domain.ErrVerificationFailed),
			want: domain.KindVerificationFailed,
		},
		{
			name: "cause wrapped with sentinel text",
			err:  domain.Wrap(errors.New("connection refused"), domain.ErrCatalogFetchFailed),
			want: domain.KindCatalogError,
		},
		{name: "lock contention", err: domain.With(domain.ErrPackageManagerLocked, "dialect", "apt"), want: domain.KindInstallError},
		{name: "foreign error", err: errors.New("boom"), want: domain.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}

func TestKindOf_VerificationInChain(t *testing.T) {
	err := zerr.Wrap(domain.ErrVerificationFailed, "installed 6.0.0")
	err = zerr.Wrap(err, "reconcile")
	assert.Equal(t, domain.KindVerificationFailed, domain.KindOf(err))
}

func TestMatches(t *testing.T) {
	annotated := domain.With(domain.ErrVersionNotFound, "version", "6.0.0")

	assert.True(t, domain.Matches(annotated, domain.ErrVersionNotFound))
	assert.True(t, domain.Matches(zerr.Wrap(annotated, "resolve"), domain.ErrVersionNotFound))
	assert.False(t, domain.Matches(annotated, domain.ErrCollectionEmpty))
	assert.False(t, domain.Matches(errors.New("version not found"), domain.ErrVersionNotFound))
	assert.False(t, domain.Matches(nil, domain.ErrVersionNotFound))
	assert.False(t, domain.Matches(zerr.New("command failed"), domain.ErrCommandFailed))
	assert.False(t, domain.Matches(zerr.Wrap(errors.New("exit 1"), "command failed"), domain.ErrCommandFailed))
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := zerr.With(domain.Wrap(cause, domain.ErrCatalogFetchFailed), "url", "https://example.test/index")

	require.ErrorIs(t, err, domain.ErrCatalogFetchFailed)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to fetch catalog index: connection refused", err.Error())
	assert.Equal(t, "https://example.test/index", domain.Details(err)["url"])
	assert.NoError(t, domain.Wrap(nil, domain.ErrCatalogFetchFailed))
}

func TestWith(t *testing.T) {
	err := domain.With(domain.ErrServiceRunning, "service", "pxp-agent")

	require.ErrorIs(t, err, domain.ErrServiceRunning)
	assert.Equal(t, domain.ErrServiceRunning.Error(), err.Error())
	assert.Equal(t, "pxp-agent", domain.Details(err)["service"])
}

func TestDetails(t *testing.T) {
	inner := domain.With(domain.ErrVersionNotFound, "version", "6.0.0")
	inner = zerr.With(inner, "platform", "el-8-x86_64")
	outer := zerr.With(zerr.Wrap(inner, "resolve"), "version", "6.0.0-outer")

	details := domain.Details(outer)
	assert.Equal(t, "6.0.0-outer", details["version"])
	assert.Equal(t, "el-8-x86_64", details["platform"])
	assert.Empty(t, domain.Details(errors.New("plain")))
}
