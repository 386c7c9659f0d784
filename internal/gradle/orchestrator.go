package gradle

import (
	"context"
	"fmt"
	"strings"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/models"
	"github.com/abtkit/abt/internal/process"
	"github.com/go-logr/logr"
)

// ProjectSource resolves registered projects by name.
type ProjectSource interface {
	Get(name string) (*models.Project, error)
}

// Orchestrator runs one Gradle build per call and stages its artifacts.
type Orchestrator struct {
	fs       filesystem.FileSystem
	runner   process.Runner
	projects ProjectSource
	log      logr.Logger
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(fs filesystem.FileSystem, runner process.Runner, projects ProjectSource, log logr.Logger) *Orchestrator {
	return &Orchestrator{
		fs:       fs,
		runner:   runner,
		projects: projects,
		log:      log,
	}
}

// Build assembles the named project.
//
// Errors are returned only when the build could not start: unknown project,
// missing launcher, or a launcher that failed to execute. Once the launcher
// ran, the outcome is carried by the result's exit code and log.
func (o *Orchestrator) Build(ctx context.Context, name string, req models.BuildRequest) (*models.BuildResult, error) {
	project, err := o.projects.Get(name)
	if err != nil {
		return nil, err
	}

	params := ResolveParams(project, req)

	runID, err := newRunID()
	if err != nil {
		return nil, err
	}
	log := o.log.WithValues("run", runID, "project", project.Name, "task", params.Task)

	launcher := LauncherPath(project.Path)
	if !o.fs.Exists(launcher) {
		return nil, errs.Configuration("%s not found in %s, check the project path", LauncherName(), project.Path)
	}

	args := append([]string{params.Task}, req.ExtraArgs...)
	log.Info("starting build", "outputDir", params.OutputDir)

	res, err := o.runner.Run(ctx, project.Path, launcher, args...)
	if err != nil {
		return nil, errs.Process(fmt.Sprintf("failed to run %s", LauncherName()), err)
	}

	result := &models.BuildResult{
		Code:   res.ExitCode,
		Params: params,
	}

	var out strings.Builder
	out.WriteString(res.Combined)

	if res.ExitCode != 0 {
		log.Info("build failed", "code", res.ExitCode)
		result.Output = fmt.Sprintf("Output directory: %s\n\n%s", params.OutputDir, out.String())
		return result, nil
	}

	fmt.Fprintf(&out, "\n\nOutput directory: %s\n", params.OutputDir)
	fmt.Fprintf(&out, "Search path: %s\n", params.ModuleDir)

	artifacts := Locate(o.fs, params.ModuleDir)
	fmt.Fprintf(&out, "Found %d artifact(s)\n", len(artifacts))

	if len(artifacts) == 0 {
		out.WriteString("No build artifacts found, check that the build succeeded\n")
	} else {
		for _, a := range artifacts {
			fmt.Fprintf(&out, "  - %s\n", a)
		}
		result.Staged = Stage(o.fs, params.OutputDir, artifacts, &out)
	}

	log.Info("build finished", "artifacts", len(artifacts), "staged", len(result.Staged))
	result.Output = out.String()
	return result, nil
}
