package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClientWithBaseURL("tok", srv.URL+"/")
	require.NoError(t, err)
	return c
}

func TestClient_GetReleaseByTag_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/acme/app/releases/tags/v1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Not Found"}`)
	})

	_, err := newTestClient(t, mux).GetReleaseByTag(context.Background(), "acme", "app", "v1")
	require.ErrorIs(t, err, ErrReleaseNotFound)
}

func TestClient_CreateReleaseAndUpload(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "app-release.apk")
	require.NoError(t, os.WriteFile(artifact, []byte("apk-bytes"), 0644))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/acme/app/releases", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "v2", body["tag_name"])
		require.Equal(t, "changes", body["body"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":7,"tag_name":"v2","html_url":"https://github.com/acme/app/releases/tag/v2"}`)
	})
	mux.HandleFunc("/api/uploads/repos/acme/app/releases/7/assets", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "app-release.apk", r.URL.Query().Get("name"))
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "apk-bytes", string(data))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":9,"name":"app-release.apk","size":9,"browser_download_url":"https://dl.example/app-release.apk"}`)
	})

	c := newTestClient(t, mux)
	release, err := c.CreateRelease(context.Background(), "acme", "app", &CreateReleaseRequest{TagName: "v2", Name: "v2", Body: "changes"})
	require.NoError(t, err)
	require.Equal(t, int64(7), release.ID)

	asset, err := c.UploadReleaseAsset(context.Background(), "acme", "app", release.ID, "app-release.apk", artifact)
	require.NoError(t, err)
	require.Equal(t, int64(9), asset.ID)
	require.Equal(t, "https://dl.example/app-release.apk", asset.BrowserDownloadURL)
}
