// Package gradle drives a project's Gradle wrapper and collects the APK/AAB
// artifacts it produces.
package gradle

import (
	"path/filepath"
	"runtime"

	"github.com/abtkit/abt/internal/models"
)

// LauncherName is the wrapper script expected at a project root.
func LauncherName() string {
	if runtime.GOOS == "windows" {
		return "gradlew.bat"
	}
	return "gradlew"
}

// LauncherPath returns the wrapper path for a project root.
func LauncherPath(root string) string {
	return filepath.Join(root, LauncherName())
}

// ResolveParams applies the request's overrides to the project defaults.
//
// For module and variant the order is: explicit value, first element of the
// project's list, the project's singular default. Build type falls back to
// "Debug". Empty strings count as absent everywhere.
func ResolveParams(project *models.Project, req models.BuildRequest) models.BuildParams {
	module := firstNonEmpty(req.Module, first(project.Modules), models.Deref(project.DefaultModule))
	variant := firstNonEmpty(req.Variant, first(project.Variants), models.Deref(project.DefaultVariant))
	buildType := firstNonEmpty(req.BuildType, models.Deref(project.BuildType), models.BuildTypeDebug)

	params := models.BuildParams{
		Module:    module,
		Variant:   variant,
		BuildType: buildType,
		Task:      TaskName(module, variant, buildType),
		ModuleDir: project.Path,
	}
	if module != "" {
		params.ModuleDir = filepath.Join(project.Path, module)
	}
	if req.OutputDir != "" {
		params.OutputDir = req.OutputDir
	} else {
		params.OutputDir = OutputDir(project.Path, module, variant, buildType)
	}
	return params
}

// TaskName builds the Gradle task id. Variant and build type are concatenated
// verbatim; no case conversion is applied.
func TaskName(module, variant, buildType string) string {
	task := "assemble" + variant + buildType
	if module != "" {
		return ":" + module + ":" + task
	}
	return task
}

// OutputDir is the default staging directory: root/module/variant/buildType
// with absent segments omitted.
func OutputDir(root, module, variant, buildType string) string {
	parts := []string{root}
	if module != "" {
		parts = append(parts, module)
	}
	if variant != "" {
		parts = append(parts, variant)
	}
	parts = append(parts, buildType)
	return filepath.Join(parts...)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
