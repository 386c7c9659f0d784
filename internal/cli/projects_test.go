package cli

import (
	"encoding/json"
	"testing"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/models"
	"github.com/stretchr/testify/require"
)

func TestProjects_AddAndList(t *testing.T) {
	env := newTestEnv(t)
	env.addGradleProject(t, "/src/shop")

	out := env.mustRun(t, "projects", "add", "shop",
		"--path", "/src/shop",
		"--module", "app",
		"--variant", "free", "--variant", "paid",
		"--build-type", "Release")
	require.Contains(t, out, "Added project shop")

	p, err := env.projects().Get("shop")
	require.NoError(t, err)
	require.Equal(t, "/src/shop", p.Path)
	require.Equal(t, []string{"app"}, p.Modules)
	require.Equal(t, []string{"free", "paid"}, p.Variants)
	require.Equal(t, "Release", models.Deref(p.BuildType))
	require.Nil(t, p.DefaultModule)

	out = env.mustRun(t, "projects", "list")
	require.Contains(t, out, "shop")
	require.Contains(t, out, "free, paid")
	require.Contains(t, out, "Release")
}

func TestProjects_ListEmpty(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "projects", "list")
	require.Contains(t, out, "No projects registered")
}

func TestProjects_ListJSONKeepsNulls(t *testing.T) {
	env := newTestEnv(t)
	env.addGradleProject(t, "/src/demo")
	env.mustRun(t, "projects", "add", "demo", "--path", "/src/demo")

	out := env.mustRun(t, "projects", "list", "--json")

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc["projects"], 1)

	project := doc["projects"][0]
	require.Equal(t, "demo", project["name"])
	for _, key := range []string{"defaultModule", "modules", "defaultVariant", "variants", "buildType"} {
		v, ok := project[key]
		require.True(t, ok, key)
		require.Nil(t, v, key)
	}
}

func TestProjects_AddRequiresLauncher(t *testing.T) {
	env := newTestEnv(t)
	env.fs.AddDir("/src/empty")

	_, _, err := env.run("projects", "add", "empty", "--path", "/src/empty")
	require.True(t, errs.IsKind(err, errs.KindConfiguration))
}

func TestProjects_AddDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.addGradleProject(t, "/src/demo")
	env.mustRun(t, "projects", "add", "demo", "--path", "/src/demo")

	_, _, err := env.run("projects", "add", "demo", "--path", "/src/demo")
	require.Error(t, err)
}

func TestProjects_AddWithoutName(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("projects", "add", "--path", "/src/demo")
	require.ErrorContains(t, err, "project name is required")
}

func TestProjects_UpdateAppliesOnlyChangedFlags(t *testing.T) {
	env := newTestEnv(t)
	env.addGradleProject(t, "/src/shop")
	env.mustRun(t, "projects", "add", "shop", "--path", "/src/shop", "--module", "app", "--variant", "free")

	out := env.mustRun(t, "projects", "update", "shop", "--build-type", "Release", "--name", "store")
	require.Contains(t, out, "Updated project store")

	_, err := env.projects().Get("shop")
	require.True(t, errs.IsKind(err, errs.KindNotFound))

	p, err := env.projects().Get("store")
	require.NoError(t, err)
	require.Equal(t, []string{"app"}, p.Modules)
	require.Equal(t, []string{"free"}, p.Variants)
	require.Equal(t, "Release", models.Deref(p.BuildType))
}

func TestProjects_UpdateClearsList(t *testing.T) {
	env := newTestEnv(t)
	env.addGradleProject(t, "/src/shop")
	env.mustRun(t, "projects", "add", "shop", "--path", "/src/shop", "--variant", "free")

	env.mustRun(t, "projects", "update", "shop", "--variant", "")

	p, err := env.projects().Get("shop")
	require.NoError(t, err)
	require.Nil(t, p.Variants)
}

func TestProjects_UpdateChecksNewPath(t *testing.T) {
	env := newTestEnv(t)
	env.addGradleProject(t, "/src/shop")
	env.fs.AddDir("/src/moved")
	env.mustRun(t, "projects", "add", "shop", "--path", "/src/shop")

	_, _, err := env.run("projects", "update", "shop", "--path", "/src/moved")
	require.True(t, errs.IsKind(err, errs.KindConfiguration))
}

func TestProjects_Delete(t *testing.T) {
	env := newTestEnv(t)
	env.addGradleProject(t, "/src/demo")
	env.mustRun(t, "projects", "add", "demo", "--path", "/src/demo")

	_, _, err := env.run("projects", "delete", "demo")
	require.ErrorContains(t, err, "--yes")

	out := env.mustRun(t, "projects", "delete", "demo", "--yes")
	require.Contains(t, out, "Deleted project demo")

	projects, err := env.projects().List()
	require.NoError(t, err)
	require.Empty(t, projects)

	_, _, err = env.run("projects", "delete", "demo", "--yes")
	require.True(t, errs.IsKind(err, errs.KindNotFound))
}
