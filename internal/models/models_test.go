package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	for _, tag := range []string{"pgyer", "fir", " github "} {
		p, err := ParsePlatform(tag)
		require.NoError(t, err, tag)
		require.Contains(t, Platforms, p)
	}

	_, err := ParsePlatform("appcenter")
	require.ErrorContains(t, err, `unsupported publish platform: "appcenter"`)

	_, err = ParsePlatform("PGYER")
	require.Error(t, err)
}

func TestProject_AbsentOptionalsAreNull(t *testing.T) {
	data, err := json.Marshal(Project{Name: "demo", Path: "/src/demo"})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"name": "demo",
		"path": "/src/demo",
		"defaultModule": null,
		"modules": null,
		"defaultVariant": null,
		"variants": null,
		"buildType": null
	}`, string(data))
}

func TestPublishProfile_GitHubFieldsOmittedWhenUnset(t *testing.T) {
	data, err := json.Marshal(PublishProfile{Name: "beta", Platform: PlatformPgyer, APIKey: StringPtr("k")})
	require.NoError(t, err)
	require.NotContains(t, string(data), "repository")
	require.Contains(t, string(data), `"api_token":null`)
}

func TestStringPtr(t *testing.T) {
	require.Nil(t, StringPtr(""))
	require.Equal(t, "x", Deref(StringPtr("x")))
	require.Equal(t, "", Deref(nil))
}

func TestBuildResult_Succeeded(t *testing.T) {
	require.False(t, (*BuildResult)(nil).Succeeded())
	require.False(t, (&BuildResult{Code: -1}).Succeeded())
	require.True(t, (&BuildResult{}).Succeeded())
}

func TestFailedPublish(t *testing.T) {
	r := FailedPublish("file not found: /x.apk")
	require.False(t, r.Success)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"message":"file not found: /x.apk"}`, string(data))
}
