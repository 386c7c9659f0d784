package publish

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/abtkit/abt/internal/models"
	"github.com/abtkit/abt/internal/process"
	"github.com/go-logr/logr"
)

const (
	firCLIName = "go-fir-cli"

	// downloadPageMarker prefixes the download page URL in go-fir-cli output
	downloadPageMarker = "下载页面:"

	firReleasesURL = "https://github.com/PGYER/go-fir-cli/releases"
)

// DelegatedCLI publishes to fir.im by running go-fir-cli.
type DelegatedCLI struct {
	fs     filesystem.FileSystem
	runner process.Runner
	log    logr.Logger

	// goos decides whether permission repair applies
	goos string
}

func NewDelegatedCLI(fs filesystem.FileSystem, runner process.Runner, log logr.Logger) *DelegatedCLI {
	return &DelegatedCLI{
		fs:     fs,
		runner: runner,
		log:    log,
		goos:   runtime.GOOS,
	}
}

func (d *DelegatedCLI) Publish(ctx context.Context, req Request) (*models.PublishResult, error) {
	token := strings.TrimSpace(models.Deref(req.Profile.APIToken))
	if token == "" {
		return nil, errs.Configuration("fir API token is not configured")
	}

	cli, err := d.discover(req.Profile)
	if err != nil {
		return nil, err
	}
	if err := d.ensureExecutable(cli); err != nil {
		return nil, err
	}

	args := []string{"-t", token, "upload", "-f", req.ArtifactPath}
	if req.Description != "" {
		args = append(args, "-c", req.Description)
	}
	d.log.Info("running go-fir-cli", "cli", cli, "token", redact(token), "file", req.ArtifactPath)

	res, err := d.runner.Run(ctx, "", cli, args...)
	if err != nil {
		msg := fmt.Sprintf("failed to run go-fir-cli at %s, make sure it is installed and executable (chmod +x %s)", cli, cli)
		return nil, errs.Process(msg, err)
	}

	if res.ExitCode != 0 {
		msg := fmt.Sprintf("go-fir-cli upload failed (exit code %d)\nstdout: %s\nstderr: %s", res.ExitCode, res.Stdout, res.Stderr)
		return nil, errs.Process(msg, nil)
	}

	result := &models.PublishResult{
		Success: true,
		Message: "fir.im upload succeeded",
	}
	if page := findDownloadPage(res.Stdout); page != "" {
		result.DownloadURL = page
		result.BuildShortcutURL = page
	}
	return result, nil
}

// discover resolves the CLI from PATH first, then from the profile.
func (d *DelegatedCLI) discover(profile models.PublishProfile) (string, error) {
	var details []string

	path, err := d.runner.LookPath(firCLIName)
	switch {
	case err != nil:
		details = append(details, fmt.Sprintf("%s not found on PATH: %v", firCLIName, err))
	case !d.fs.Exists(path):
		details = append(details, fmt.Sprintf("PATH lookup returned %s but the file does not exist", path))
	default:
		d.log.V(1).Info("found go-fir-cli on PATH", "path", path)
		return path, nil
	}

	switch {
	case profile.GoFirCLIPath == nil:
		details = append(details, "no go-fir-cli path is set in the publish profile")
	case strings.TrimSpace(*profile.GoFirCLIPath) == "":
		details = append(details, "the configured go-fir-cli path is empty")
	default:
		configured := strings.TrimSpace(*profile.GoFirCLIPath)
		if d.fs.Exists(configured) {
			d.log.V(1).Info("using configured go-fir-cli", "path", configured)
			return configured, nil
		}
		details = append(details, fmt.Sprintf("configured path does not exist: %s", configured))
	}

	return "", errs.Configuration("%s", notFoundHelp(profile.Name, details))
}

func notFoundHelp(profile string, details []string) string {
	if profile == "" {
		profile = "<profile>"
	}

	var b strings.Builder
	b.WriteString("go-fir-cli not found\n\n")
	b.WriteString("To fix this:\n")
	b.WriteString("1. Set the go-fir-cli path in the publish profile (recommended)\n")
	fmt.Fprintf(&b, "   - abt platforms update %s --go-fir-cli-path /usr/local/bin/go-fir-cli\n\n", profile)
	b.WriteString("2. Or install go-fir-cli into PATH:\n")
	fmt.Fprintf(&b, "   - Download the binary for your platform from %s\n", firReleasesURL)
	b.WriteString("   - Put it in a directory on PATH (e.g. /usr/local/bin)\n")
	b.WriteString("   - Make it executable: chmod +x /usr/local/bin/go-fir-cli\n")

	if len(details) > 0 {
		b.WriteString("\nSearch details:\n")
		for i, detail := range details {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, detail)
		}
	}
	return b.String()
}

// ensureExecutable adds the execute bits when none are set.
func (d *DelegatedCLI) ensureExecutable(path string) error {
	if d.goos == "windows" {
		return nil
	}

	info, err := d.fs.Stat(path)
	if err != nil {
		d.log.V(1).Info("cannot stat go-fir-cli, running it anyway", "error", err.Error())
		return nil
	}

	mode := info.Mode()
	if mode&0o111 != 0 {
		return nil
	}

	d.log.Info("go-fir-cli is not executable, adding execute permission", "path", path, "mode", mode.String())
	if err := d.fs.Chmod(path, mode.Perm()|0o111); err != nil {
		return errs.Configuration(
			"go-fir-cli is not executable and could not be fixed automatically\n\nFile: %s\nError: %v\n\nRun this command to fix it:\nchmod +x %s\n",
			path, err, path)
	}
	return nil
}

// findDownloadPage returns the trimmed text after the marker on the first line
// that carries one.
func findDownloadPage(stdout string) string {
	for _, line := range strings.Split(stdout, "\n") {
		_, rest, ok := strings.Cut(line, downloadPageMarker)
		if !ok {
			continue
		}
		if page := strings.TrimSpace(rest); page != "" {
			return page
		}
	}
	return ""
}
