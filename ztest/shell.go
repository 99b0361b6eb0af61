package ztest

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RunShell runs script with bash in dir.  The directories in path are
// prepended to PATH so the script finds the executables under test.
func RunShell(ctx context.Context, dir, path, script string, stdin io.Reader, env []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "bash", "-e", "-o", "pipefail", "-c", script)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	if path != "" {
		var dirs []string
		for _, d := range filepath.SplitList(path) {
			if abs, err := filepath.Abs(d); err == nil {
				d = abs
			}
			dirs = append(dirs, d)
		}
		dirs = append(dirs, os.Getenv("PATH"))
		cmd.Env = append(cmd.Env, "PATH="+strings.Join(dirs, string(filepath.ListSeparator)))
	}
	cmd.Env = append(cmd.Env, env...)
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
