package notes

import (
	"testing"

	"github.com/abtkit/abt/internal/filesystem"
	"github.com/stretchr/testify/require"
)

func TestParse_WithFrontMatter(t *testing.T) {
	n, err := Parse([]byte("---\nprofile: beta\npassword: \"1234\"\n---\n\n## 1.4.0\n\n- new checkout flow\n"))
	require.NoError(t, err)
	require.Equal(t, "beta", n.Profile)
	require.Equal(t, "1234", n.Password)
	require.Equal(t, "## 1.4.0\n\n- new checkout flow", n.Body)
}

func TestParse_WithoutFrontMatter(t *testing.T) {
	n, err := Parse([]byte("\n  Fixed login on tablets.\n\n"))
	require.NoError(t, err)
	require.Empty(t, n.Profile)
	require.Empty(t, n.Password)
	require.Equal(t, "Fixed login on tablets.", n.Body)
}

func TestParse_InvalidFrontMatter(t *testing.T) {
	_, err := Parse([]byte("---\nprofile: [unclosed\n---\nbody\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/work/RELEASE.md", []byte("---\nprofile: fir-prod\n---\nhotfix\n"))

	n, err := Load(fs, "/work/RELEASE.md")
	require.NoError(t, err)
	require.Equal(t, "fir-prod", n.Profile)
	require.Equal(t, "hotfix", n.Body)

	_, err = Load(fs, "/work/missing.md")
	require.Error(t, err)
}
