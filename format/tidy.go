package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Tidy runs the HTML Tidy program as a pretty printer. Markup is written to
// its standard input and the formatted document is read from its standard
// output. Exit status 1 (warnings) is accepted.
type Tidy struct {
	path string
	args []string
}

// NewTidy builds a Tidy formatter from the configuration.
func NewTidy(cfg TidyConfig) *Tidy {
	args := cfg.Args
	if args == nil {
		args = []string{
			"-quiet",
			"--show-warnings", "no",
			"-wrap", strconv.Itoa(cfg.Wrap),
			"--tidy-mark", "no",
			"-as-html",
			"-utf8",
			"--custom-tags", "blocklevel",
			"--drop-empty-elements", "no",
		}
		if cfg.Indent {
			args = append(args, "-indent")
		}
	}
	return &Tidy{path: cfg.Path, args: args}
}

// Format pipes markup through tidy.
func (t *Tidy) Format(ctx context.Context, markup string) (string, error) {
	path, err := exec.LookPath(t.path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNotInstalled, t.path, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, t.args...)
	cmd.Stdin = strings.NewReader(markup)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		err = nil
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("tidy failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("tidy failed: %w", err)
	}
	return stdout.String(), nil
}
