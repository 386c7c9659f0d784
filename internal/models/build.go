package models

// BuildRequest carries per-call overrides. Empty fields fall back to the
// project's defaults.
type BuildRequest struct {
	Module    string
	Variant   string
	BuildType string
	OutputDir string

	// ExtraArgs are appended to the Gradle command line after the task name.
	ExtraArgs []string
}

// BuildParams are the effective parameters after resolving a BuildRequest
// against a Project.
type BuildParams struct {
	Module    string
	Variant   string
	BuildType string
	Task      string
	OutputDir string
	ModuleDir string
}

// BuildResult is the outcome of one build invocation.
type BuildResult struct {
	// Code is the raw exit code of the build tool (-1 when it has none)
	Code int `json:"code"`

	// Output is the combined build log followed by staging narration
	Output string `json:"output"`

	// Params echoes the resolved parameters
	Params BuildParams `json:"-"`

	// Staged lists the files copied into the output directory
	Staged []string `json:"-"`
}

// Succeeded reports whether the build tool exited with code 0.
func (r *BuildResult) Succeeded() bool {
	return r != nil && r.Code == 0
}
