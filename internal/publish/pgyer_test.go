package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/models"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/require"
)

// fakePgyer is an in-process stand-in for the token, storage and build-info
// endpoints.
type fakePgyer struct {
	t   *testing.T
	srv *httptest.Server

	mu             sync.Mutex
	tokenResponse  map[string]any
	tokenForm      map[string]string
	uploadStatus   int
	uploadRequest  *http.Request
	uploadFile     []byte
	uploadFilename string
	uploadType     string
	processing     int // number of 1247 responses before success; -1 forever
	infoCalls      int
	infoResponse   map[string]any
}

func newFakePgyer(t *testing.T) *fakePgyer {
	f := &fakePgyer{t: t, uploadStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/apiv2/app/getCOSToken", f.handleToken)
	mux.HandleFunc("/cos/upload", f.handleUpload)
	mux.HandleFunc("/apiv2/app/buildInfo", f.handleInfo)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	f.tokenResponse = map[string]any{
		"code":    0,
		"message": "",
		"data": map[string]any{
			"endpoint": f.srv.URL + "/cos/upload",
			"key":      "build-key-1",
			"params": map[string]any{
				"signature":            "s",
				"key":                  "k",
				"x-cos-security-token": "t",
			},
		},
	}
	f.infoResponse = map[string]any{
		"code": 0,
		"data": map[string]any{
			"buildKey":         "build-key-1",
			"buildShortcutUrl": "abCd",
			"buildQRCodeURL":   "https://www.pgyer.com/app/qrcode/abCd",
		},
	}
	return f
}

func (f *fakePgyer) handleToken(w http.ResponseWriter, r *http.Request) {
	require.NoError(f.t, r.ParseMultipartForm(1<<20))
	f.mu.Lock()
	f.tokenForm = map[string]string{}
	for k, v := range r.MultipartForm.Value {
		f.tokenForm[k] = v[0]
	}
	resp := f.tokenResponse
	f.mu.Unlock()

	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakePgyer) handleUpload(w http.ResponseWriter, r *http.Request) {
	require.NoError(f.t, r.ParseMultipartForm(1<<20))
	file, header, err := r.FormFile("file")
	require.NoError(f.t, err)
	data, err := io.ReadAll(file)
	require.NoError(f.t, err)

	f.mu.Lock()
	f.uploadRequest = r
	f.uploadFile = data
	f.uploadFilename = header.Filename
	f.uploadType = header.Header.Get("Content-Type")
	status := f.uploadStatus
	f.mu.Unlock()

	w.WriteHeader(status)
}

func (f *fakePgyer) handleInfo(w http.ResponseWriter, r *http.Request) {
	require.NoError(f.t, r.ParseMultipartForm(1<<20))
	require.Equal(f.t, "key-123", r.FormValue("_api_key"))
	require.Equal(f.t, "build-key-1", r.FormValue("buildKey"))

	f.mu.Lock()
	f.infoCalls++
	processing := f.processing < 0 || f.infoCalls <= f.processing
	resp := f.infoResponse
	f.mu.Unlock()

	if processing {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 1247, "message": "processing"})
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func newSignedUpload(f *fakePgyer) (*SignedUpload, *sleepRecorder) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/out/app.apk", []byte("apk-payload"))

	rec := &sleepRecorder{}
	p := NewSignedUpload(fs, logr.Discard())
	p.BaseURL = f.srv.URL
	p.Sleep = rec.sleep
	return p, rec
}

func pgyerRequest() Request {
	return Request{
		ArtifactPath: "/out/app.apk",
		Profile: models.PublishProfile{
			Name:     "beta",
			Platform: models.PlatformPgyer,
			APIKey:   models.StringPtr("key-123"),
		},
	}
}

func TestSignedUpload_Success(t *testing.T) {
	f := newFakePgyer(t)
	p, rec := newSignedUpload(f)

	result, err := p.Publish(context.Background(), pgyerRequest())
	require.NoError(t, err)
	require.Equal(t, &models.PublishResult{
		Success:          true,
		Message:          "upload succeeded",
		DownloadURL:      "https://www.pgyer.com/abCd",
		QRCodeURL:        "https://www.pgyer.com/app/qrcode/abCd",
		BuildKey:         "build-key-1",
		BuildShortcutURL: "abCd",
	}, result)

	require.Equal(t, map[string]string{"_api_key": "key-123", "buildType": "android"}, f.tokenForm)
	require.Equal(t, "apk-payload", string(f.uploadFile))
	require.Equal(t, "app.apk", f.uploadFilename)
	require.Equal(t, "application/vnd.android.package-archive", f.uploadType)
	require.Equal(t, 1, f.infoCalls)
	require.Empty(t, rec.waits)
}

func TestSignedUpload_SigningParameterPlacement(t *testing.T) {
	f := newFakePgyer(t)
	p, _ := newSignedUpload(f)

	_, err := p.Publish(context.Background(), pgyerRequest())
	require.NoError(t, err)

	req := f.uploadRequest
	require.Equal(t, "t", req.Header.Get("x-cos-security-token"))
	require.Empty(t, req.Header.Get("signature"))
	require.Empty(t, req.Header.Get("key"))

	query := req.URL.Query()
	require.Equal(t, "s", query.Get("signature"))
	require.Equal(t, "k", query.Get("key"))
	require.False(t, query.Has("x-cos-security-token"))
}

func TestSignedUpload_LogsNonStringSigningParameters(t *testing.T) {
	f := newFakePgyer(t)
	f.tokenResponse["data"].(map[string]any)["params"] = map[string]any{
		"signature": "s",
		"expires":   3600,
	}
	p, _ := newSignedUpload(f)

	var lines []string
	p.log = funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	_, err := p.Publish(context.Background(), pgyerRequest())
	require.NoError(t, err)
	require.False(t, f.uploadRequest.URL.Query().Has("expires"))
	require.Equal(t, "s", f.uploadRequest.URL.Query().Get("signature"))

	logged := strings.Join(lines, "\n")
	require.Contains(t, logged, `"msg"="skipping non-string signing parameter"`)
	require.Contains(t, logged, `"param"="expires"`)
	require.Contains(t, logged, `"type"="float64"`)
}

func TestSignedUpload_OptionalTokenFields(t *testing.T) {
	f := newFakePgyer(t)
	p, _ := newSignedUpload(f)

	req := pgyerRequest()
	req.Description = "fixed crash on launch"
	req.Profile.Password = models.StringPtr("1234")

	_, err := p.Publish(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"_api_key":               "key-123",
		"buildType":              "android",
		"buildUpdateDescription": "fixed crash on launch",
		"buildInstallType":       "2",
		"buildPassword":          "1234",
	}, f.tokenForm)
}

func TestSignedUpload_RetriesWhileProcessing(t *testing.T) {
	f := newFakePgyer(t)
	f.processing = 3
	p, rec := newSignedUpload(f)

	result, err := p.Publish(context.Background(), pgyerRequest())
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 4, f.infoCalls)
	require.Equal(t, []time.Duration{4 * time.Second, 5 * time.Second, 3 * time.Second}, rec.waits)
}

func TestSignedUpload_TimesOutAtAttemptCap(t *testing.T) {
	f := newFakePgyer(t)
	f.processing = -1
	p, rec := newSignedUpload(f)
	p.MaxAttempts = 5

	_, err := p.Publish(context.Background(), pgyerRequest())
	require.True(t, errs.IsKind(err, errs.KindTimeout))
	require.Equal(t, 5, f.infoCalls)
	require.Len(t, rec.waits, 4)
}

func TestSignedUpload_SleepCancellation(t *testing.T) {
	f := newFakePgyer(t)
	f.processing = -1
	p, _ := newSignedUpload(f)
	p.Sleep = sleepContext
	p.PollUnit = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := p.Publish(ctx, pgyerRequest())
	require.ErrorIs(t, err, context.Canceled)
}

func TestSignedUpload_ServiceErrors(t *testing.T) {
	t.Run("token exchange rejected", func(t *testing.T) {
		f := newFakePgyer(t)
		f.tokenResponse = map[string]any{"code": 1, "message": "bad key"}
		p, _ := newSignedUpload(f)

		_, err := p.Publish(context.Background(), pgyerRequest())
		require.True(t, errs.IsKind(err, errs.KindService))
		require.EqualError(t, err, "failed to get upload credentials: bad key")
		require.Zero(t, f.infoCalls)
	})

	t.Run("credentials without signing parameters", func(t *testing.T) {
		f := newFakePgyer(t)
		delete(f.tokenResponse["data"].(map[string]any), "params")
		p, _ := newSignedUpload(f)

		_, err := p.Publish(context.Background(), pgyerRequest())
		require.True(t, errs.IsKind(err, errs.KindService))
		require.ErrorContains(t, err, "missing the signing parameters")
		require.Nil(t, f.uploadRequest)
	})

	t.Run("signing parameters not an object", func(t *testing.T) {
		f := newFakePgyer(t)
		f.tokenResponse["data"].(map[string]any)["params"] = "signature=s"
		p, _ := newSignedUpload(f)

		_, err := p.Publish(context.Background(), pgyerRequest())
		require.True(t, errs.IsKind(err, errs.KindService))
		require.Nil(t, f.uploadRequest)
	})

	t.Run("storage rejects upload", func(t *testing.T) {
		f := newFakePgyer(t)
		f.uploadStatus = http.StatusForbidden
		p, _ := newSignedUpload(f)

		_, err := p.Publish(context.Background(), pgyerRequest())
		require.True(t, errs.IsKind(err, errs.KindService))
		require.EqualError(t, err, "failed to upload file, HTTP status 403")
	})

	t.Run("build info error code", func(t *testing.T) {
		f := newFakePgyer(t)
		f.infoResponse = map[string]any{"code": 1216, "message": "app is invalid"}
		p, _ := newSignedUpload(f)

		_, err := p.Publish(context.Background(), pgyerRequest())
		require.True(t, errs.IsKind(err, errs.KindService))
		require.EqualError(t, err, "failed to check upload status: app is invalid")
	})

	t.Run("missing api key", func(t *testing.T) {
		f := newFakePgyer(t)
		p, _ := newSignedUpload(f)
		req := pgyerRequest()
		req.Profile.APIKey = nil

		_, err := p.Publish(context.Background(), req)
		require.True(t, errs.IsKind(err, errs.KindConfiguration))
	})
}

func TestSignedUpload_ReportsProgress(t *testing.T) {
	f := newFakePgyer(t)
	p, _ := newSignedUpload(f)
	var progress bytes.Buffer
	p.Progress = &progress

	_, err := p.Publish(context.Background(), pgyerRequest())
	require.NoError(t, err)
	require.Contains(t, progress.String(), "Uploading app.apk")
}

func TestPublish_BadKeyScenario(t *testing.T) {
	f := newFakePgyer(t)
	f.tokenResponse = map[string]any{"code": 1, "message": "bad key"}
	p, _ := newSignedUpload(f)

	svc := NewService(p.fs, Strategies{models.PlatformPgyer: p}, logr.Discard())
	result := svc.Publish(context.Background(), "/out/app.apk", pgyerRequest().Profile, Overrides{})

	require.False(t, result.Success)
	require.Contains(t, result.Message, "bad key")
}
