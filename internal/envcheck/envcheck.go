// Package envcheck probes the local toolchain needed for Android builds.
package envcheck

import (
	"context"
	"strings"

	"github.com/abtkit/abt/internal/process"
)

// Check is the outcome of one probe.
type Check struct {
	Tool    string `json:"tool"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type probe struct {
	tool    string
	command string
	args    []string
	okMsg   func(out string) string
	failMsg string
}

var probes = []probe{
	{
		tool:    "Java (JDK)",
		command: "java",
		args:    []string{"-version"},
		okMsg:   func(string) string { return "JDK detected" },
		failMsg: "JDK not detected, install JDK 17+",
	},
	{
		tool:    "JAVA_HOME",
		command: "/usr/libexec/java_home",
		okMsg:   func(out string) string { return "JAVA_HOME: " + out },
		failMsg: "JAVA_HOME not detected",
	},
	{
		tool:    "Xcode CLT",
		command: "xcode-select",
		args:    []string{"-p"},
		okMsg:   func(out string) string { return "Xcode Command Line Tools detected: " + out },
		failMsg: "Xcode Command Line Tools not detected",
	},
}

// Run executes every probe in order. Probes never fail the call; a tool that
// cannot be started is reported as not OK with the error as detail.
func Run(ctx context.Context, runner process.Runner) []Check {
	checks := make([]Check, 0, len(probes))
	for _, p := range probes {
		checks = append(checks, run(ctx, runner, p))
	}
	return checks
}

func run(ctx context.Context, runner process.Runner, p probe) Check {
	check := Check{Tool: p.tool}

	res, err := runner.Run(ctx, "", p.command, p.args...)
	if err != nil {
		check.Message = p.failMsg
		check.Detail = err.Error()
		return check
	}

	out := strings.TrimSpace(res.Stdout + res.Stderr)
	check.OK = res.Success()
	check.Detail = out
	if check.OK {
		check.Message = p.okMsg(out)
	} else {
		check.Message = p.failMsg
	}
	return check
}
