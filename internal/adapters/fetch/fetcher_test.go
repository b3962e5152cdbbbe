package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/agentup/internal/adapters/fetch"
	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

func TestFetch_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apt/puppet-agent_6.19.1-1focal_amd64.deb", r.URL.Path)
		_, _ = w.Write([]byte("deb-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	f := fetch.NewFetcherWithClient(quietLogger(t), server.Client())

	got, err := f.Fetch(context.Background(), server.URL+"/apt/puppet-agent_6.19.1-1focal_amd64.deb", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "puppet-agent_6.19.1-1focal_amd64.deb"), got)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "deb-bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFetch_HTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := fetch.NewFetcherWithClient(quietLogger(t), server.Client())

	_, err := f.Fetch(context.Background(), server.URL+"/missing.rpm", t.TempDir())
	require.Error(t, err)
	assert.True(t, domain.Matches(err, domain.ErrArtifactFetchFailed))
	assert.Equal(t, http.StatusNotFound, domain.Details(err)["status_code"])
}

func TestFetch_FileURIAndPlainPath(t *testing.T) {
	src := filepath.Join(t.TempDir(), "puppet-agent-7.1.0-1.el8.x86_64.rpm")
	require.NoError(t, os.WriteFile(src, []byte("rpm"), 0o600))

	f := fetch.NewFetcher(quietLogger(t))

	for name, uri := range map[string]string{
		"file uri":   "file://" + filepath.ToSlash(src),
		"plain path": src,
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			got, err := f.Fetch(context.Background(), uri, dir)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, filepath.Base(src)), got)
		})
	}
}

func TestFetch_Errors(t *testing.T) {
	f := fetch.NewFetcher(quietLogger(t))

	tests := []struct {
		name string
		uri  string
	}{
		{"empty", ""},
		{"unsupported scheme", "ftp://example.com/puppet.msi"},
		{"missing file", filepath.Join(t.TempDir(), "absent.msi")},
		{"no file name", "https://example.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.uri, t.TempDir())
			require.Error(t, err)
			assert.True(t, domain.Matches(err, domain.ErrArtifactFetchFailed))
		})
	}
}
