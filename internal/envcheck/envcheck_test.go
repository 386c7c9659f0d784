package envcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/abtkit/abt/internal/process"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	runner := process.NewMockRunner()
	runner.Handler = func(call process.Call) (*process.Result, error) {
		switch call.Name {
		case "java":
			require.Equal(t, []string{"-version"}, call.Args)
			return &process.Result{ExitCode: 0, Stderr: "openjdk version \"17.0.9\"\n"}, nil
		case "/usr/libexec/java_home":
			return &process.Result{ExitCode: 0, Stdout: "/Library/Java/JavaVirtualMachines/jdk-17/Contents/Home\n"}, nil
		case "xcode-select":
			return nil, errors.New("executable file not found in $PATH")
		}
		return nil, errors.New("unexpected command " + call.Name)
	}

	checks := Run(context.Background(), runner)
	require.Equal(t, []Check{
		{Tool: "Java (JDK)", OK: true, Message: "JDK detected", Detail: "openjdk version \"17.0.9\""},
		{Tool: "JAVA_HOME", OK: true, Message: "JAVA_HOME: /Library/Java/JavaVirtualMachines/jdk-17/Contents/Home", Detail: "/Library/Java/JavaVirtualMachines/jdk-17/Contents/Home"},
		{Tool: "Xcode CLT", OK: false, Message: "Xcode Command Line Tools not detected", Detail: "executable file not found in $PATH"},
	}, checks)
}

func TestRun_NonZeroExit(t *testing.T) {
	runner := process.NewMockRunner()
	runner.Handler = func(call process.Call) (*process.Result, error) {
		return &process.Result{ExitCode: 2, Stdout: "out ", Stderr: "err\n"}, nil
	}

	checks := Run(context.Background(), runner)
	require.Len(t, checks, 3)
	require.False(t, checks[0].OK)
	require.Equal(t, "JDK not detected, install JDK 17+", checks[0].Message)
	require.Equal(t, "out err", checks[0].Detail)
}
