package cli

import (
	"bytes"
	"testing"

	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/github"
	"github.com/abtkit/abt/internal/gradle"
	"github.com/abtkit/abt/internal/process"
	"github.com/abtkit/abt/internal/publish"
	"github.com/abtkit/abt/internal/registry"
	"github.com/stretchr/testify/require"
)

const registryDir = "/workspace/config"

type testEnv struct {
	fs     *filesystem.MockFileSystem
	runner *process.MockRunner
	gh     *github.MockClient
	sleep  publish.SleepFunc
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("ABT_REGISTRY_DIR", "")
	t.Setenv("ABT_CONFIG", "")

	fs := filesystem.NewMockFileSystem()
	fs.AddDir(registryDir)
	return &testEnv{
		fs:     fs,
		runner: process.NewMockRunner(),
		gh:     github.NewMockClient(),
	}
}

// run executes the root command and returns stdout and stderr.
func (e *testEnv) run(args ...string) (string, string, error) {
	interactive := false
	cmd := NewRootCommand(Dependencies{
		FS:     e.fs,
		Runner: e.runner,
		NewReleaseClient: func(token string) github.ReleaseClient {
			return e.gh
		},
		Sleep:       e.sleep,
		Interactive: &interactive,
	})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--registry-dir", registryDir}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(args...)
	require.NoError(t, err, stderr)
	return out
}

func (e *testEnv) addGradleProject(t *testing.T, root string) {
	t.Helper()
	e.fs.AddFileWithMode(gradle.LauncherPath(root), []byte("#!/bin/sh\n"), 0o755)
}

func (e *testEnv) projects() *registry.ProjectRegistry {
	return registry.NewProjectRegistry(e.fs, registryDir)
}

func (e *testEnv) profiles() *registry.ProfileRegistry {
	return registry.NewProfileRegistry(e.fs, registryDir)
}
