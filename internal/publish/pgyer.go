package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/models"
	"github.com/go-logr/logr"
	"github.com/schollz/progressbar/v3"
)

const (
	DefaultPgyerBaseURL     = "https://api.pgyer.com"
	DefaultPgyerDownloadURL = "https://www.pgyer.com/"
	DefaultMaxAttempts      = 60
	DefaultUploadTimeout    = 300 * time.Second

	// stillProcessing is the buildInfo code returned while the service
	// finishes ingesting an upload
	stillProcessing = 1247

	// securityTokenParam travels as a request header; every other signing
	// parameter travels in the query string
	securityTokenParam = "x-cos-security-token"

	apkContentType = "application/vnd.android.package-archive"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SignedUpload publishes to pgyer: fetch short-lived upload credentials, upload
// the artifact to object storage, then poll until the build is registered.
type SignedUpload struct {
	Client      *http.Client
	BaseURL     string
	DownloadURL string
	MaxAttempts int

	// PollUnit scales the 3, 4, 5 step wait between status polls
	PollUnit time.Duration
	Sleep    SleepFunc

	// Progress, when set, receives an upload progress bar
	Progress io.Writer

	fs  filesystem.FileSystem
	log logr.Logger
}

// NewSignedUpload creates a SignedUpload with production defaults
func NewSignedUpload(fs filesystem.FileSystem, log logr.Logger) *SignedUpload {
	return &SignedUpload{
		Client:      &http.Client{Timeout: DefaultUploadTimeout},
		BaseURL:     DefaultPgyerBaseURL,
		DownloadURL: DefaultPgyerDownloadURL,
		MaxAttempts: DefaultMaxAttempts,
		PollUnit:    time.Second,
		Sleep:       sleepContext,
		fs:          fs,
		log:         log,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type uploadToken struct {
	Endpoint string         `json:"endpoint"`
	Key      string         `json:"key"`
	Params   map[string]any `json:"params"`
}

type buildInfo struct {
	BuildKey         string `json:"buildKey"`
	BuildShortcutURL string `json:"buildShortcutUrl"`
	BuildQRCodeURL   string `json:"buildQRCodeURL"`
}

type field struct {
	name  string
	value string
}

func (s *SignedUpload) Publish(ctx context.Context, req Request) (*models.PublishResult, error) {
	apiKey := strings.TrimSpace(models.Deref(req.Profile.APIKey))
	if apiKey == "" {
		return nil, errs.Configuration("pgyer API key is not configured")
	}
	log := s.log.WithValues("file", filepath.Base(req.ArtifactPath))

	token, err := s.fetchToken(ctx, apiKey, req)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("received upload credentials", "endpoint", token.Endpoint, "params", len(token.Params))

	start := time.Now()
	if err := s.upload(ctx, token, req.ArtifactPath); err != nil {
		return nil, err
	}
	log.Info("artifact uploaded", "elapsed", time.Since(start).Round(time.Millisecond), "buildKey", token.Key)

	info, err := s.waitForBuild(ctx, apiKey, token.Key)
	if err != nil {
		return nil, err
	}

	result := &models.PublishResult{
		Success:          true,
		Message:          "upload succeeded",
		QRCodeURL:        info.BuildQRCodeURL,
		BuildKey:         info.BuildKey,
		BuildShortcutURL: info.BuildShortcutURL,
	}
	if info.BuildShortcutURL != "" {
		result.DownloadURL = s.DownloadURL + info.BuildShortcutURL
	}
	return result, nil
}

// fetchToken exchanges the API key for signed upload parameters.
func (s *SignedUpload) fetchToken(ctx context.Context, apiKey string, req Request) (*uploadToken, error) {
	fields := []field{
		{"_api_key", apiKey},
		{"buildType", "android"},
	}
	if req.Description != "" {
		fields = append(fields, field{"buildUpdateDescription", req.Description})
	}
	if password := models.Deref(req.Profile.Password); password != "" {
		fields = append(fields, field{"buildInstallType", "2"}, field{"buildPassword", password})
	}

	env, err := s.postForm(ctx, "/apiv2/app/getCOSToken", fields)
	if err != nil {
		return nil, errs.Service("failed to get upload credentials", err)
	}
	if env.Code != 0 {
		return nil, errs.New(errs.KindService, fmt.Sprintf("failed to get upload credentials: %s", messageOr(env.Message)), nil)
	}

	var token uploadToken
	if err := json.Unmarshal(env.Data, &token); err != nil {
		return nil, errs.Service("failed to decode upload credentials", err)
	}
	if token.Endpoint == "" || token.Key == "" {
		return nil, errs.New(errs.KindService, "upload credentials are missing the endpoint or key", nil)
	}
	if token.Params == nil {
		return nil, errs.New(errs.KindService, "upload credentials are missing the signing parameters", nil)
	}
	return &token, nil
}

// upload posts the artifact to the object storage endpoint.
func (s *SignedUpload) upload(ctx context.Context, token *uploadToken, artifactPath string) error {
	data, err := s.fs.ReadFile(artifactPath)
	if err != nil {
		return errs.IO(fmt.Sprintf("failed to read %s", artifactPath), err)
	}

	endpoint, err := url.Parse(token.Endpoint)
	if err != nil {
		return errs.Service("invalid upload endpoint", err)
	}

	header := http.Header{}
	query := endpoint.Query()
	keys := make([]string, 0, len(token.Params))
	for k := range token.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := token.Params[k].(string)
		if !ok {
			s.log.V(1).Info("skipping non-string signing parameter", "param", k, "type", fmt.Sprintf("%T", token.Params[k]))
			continue
		}
		if k == securityTokenParam {
			header.Set(securityTokenParam, v)
		} else {
			query.Add(k, v)
		}
	}
	endpoint.RawQuery = query.Encode()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(artifactPath))},
		"Content-Type":        {apkContentType},
	})
	if err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}

	size := int64(body.Len())
	var reader io.Reader = &body
	if s.Progress != nil {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetDescription("Uploading "+filepath.Base(artifactPath)),
			progressbar.OptionSetWriter(s.Progress),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(s.Progress)
			}),
		)
		reader = io.TeeReader(&body, bar)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	httpReq.ContentLength = size
	httpReq.Header = header
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return errs.Service("failed to upload file", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.log.V(1).Info("upload rejected", "status", resp.StatusCode, "body", string(detail))
		return errs.New(errs.KindService, fmt.Sprintf("failed to upload file, HTTP status %d", resp.StatusCode), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// waitForBuild polls buildInfo until the service reports the build, fails, or
// the attempt cap is reached.
func (s *SignedUpload) waitForBuild(ctx context.Context, apiKey, buildKey string) (*buildInfo, error) {
	retries := 0
	for {
		env, err := s.postForm(ctx, "/apiv2/app/buildInfo", []field{
			{"_api_key", apiKey},
			{"buildKey", buildKey},
		})
		if err != nil {
			return nil, errs.Service("failed to check upload status", err)
		}

		switch env.Code {
		case 0:
			var info buildInfo
			if err := json.Unmarshal(env.Data, &info); err != nil {
				return nil, errs.Service("failed to decode build info", err)
			}
			s.log.V(1).Info("build registered", "retries", retries)
			return &info, nil

		case stillProcessing:
			retries++
			if retries >= s.MaxAttempts {
				return nil, errs.Timeout("upload status check timed out: still processing after %d attempts", s.MaxAttempts)
			}
			wait := time.Duration(3+retries%3) * s.PollUnit
			s.log.V(1).Info("build still processing", "attempt", retries, "wait", wait)
			if err := s.Sleep(ctx, wait); err != nil {
				return nil, err
			}

		default:
			return nil, errs.New(errs.KindService, fmt.Sprintf("failed to check upload status: %s", messageOr(env.Message)), nil)
		}
	}
}

// postForm sends a multipart form to a path under BaseURL and decodes the
// JSON envelope.
func (s *SignedUpload) postForm(ctx context.Context, path string, fields []field) (*envelope, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(s.BaseURL, "/")+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("invalid response (HTTP %d): %w", resp.StatusCode, err)
	}
	return &env, nil
}

func messageOr(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
