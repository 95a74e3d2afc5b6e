package format

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	f, err := New(&Config{Engine: EngineNone})
	require.NoError(t, err)
	out, err := f.Format(context.Background(), "<p>x</p>")
	require.NoError(t, err)
	require.Equal(t, "<p>x</p>", out)

	f, err = New(&Config{Engine: EngineMinify})
	require.NoError(t, err)
	require.IsType(t, &Minifier{}, f)

	f, err = New(nil)
	require.NoError(t, err)
	require.IsType(t, &Tidy{}, f)

	f, err = New(&Config{Engine: EngineIndent})
	require.NoError(t, err)
	require.IsType(t, &Indenter{}, f)

	_, err = New(&Config{Engine: "gofmt"})
	require.Error(t, err)
}

func TestMinifier(t *testing.T) {
	cfg := DefaultConfig().Minify
	f := NewMinifier(cfg)

	in := "<!DOCTYPE html><html><head><style>p {  color : red ; }</style></head>" +
		"<body>\n  <p class=\"a\">  hello \n\n world  </p>\n  <!-- note -->\n</body></html>"
	out, err := f.Format(context.Background(), in)
	require.NoError(t, err)
	require.Less(t, len(out), len(in))
	require.Contains(t, out, "hello world")
	require.Contains(t, out, "p{color:red}")
	require.Contains(t, out, "</p>")
	require.NotContains(t, out, "note")

	cfg.KeepComments = true
	out, err = NewMinifier(cfg).Format(context.Background(), in)
	require.NoError(t, err)
	require.Contains(t, out, "<!-- note -->")
}

func TestIndenter(t *testing.T) {
	f := NewIndenter(IndentConfig{Width: 1})
	out, err := f.Format(context.Background(), "<!DOCTYPE html><div><p>a</p><p>b <b>c</b></p></div>")
	require.NoError(t, err)
	require.Equal(t, "<!DOCTYPE html>\n<html>\n<head></head>\n<body>\n<div>\n <p>a</p>\n <p>b <b>c</b></p>\n</div>\n</body></html>", out)

	again, err := f.Format(context.Background(), out)
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestTidyNotInstalled(t *testing.T) {
	f := NewTidy(TidyConfig{Path: "htmlast-no-such-tidy"})
	_, err := f.Format(context.Background(), "<p>x</p>")
	require.ErrorIs(t, err, ErrNotInstalled)
	require.ErrorIs(t, err, exec.ErrNotFound)
}

func TestTidyExitStatus(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	tests := []struct {
		name    string
		script  string
		want    string
		wantErr string
	}{
		{"success", "cat", "<p>x</p>", ""},
		{"warnings", "cat; exit 1", "<p>x</p>", ""},
		{"failure", "echo broken >&2; exit 2", "", "tidy failed: exit status 2: broken"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewTidy(TidyConfig{Path: "sh", Args: []string{"-c", tc.script}})
			out, err := f.Format(context.Background(), "<p>x</p>")
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, out)
		})
	}
}

func TestTidyArgs(t *testing.T) {
	f := NewTidy(DefaultConfig().Tidy)
	require.Contains(t, f.args, "-indent")
	require.Contains(t, f.args, "120")

	f = NewTidy(TidyConfig{Path: "tidy", Wrap: 80})
	require.NotContains(t, f.args, "-indent")
	require.Contains(t, f.args, "80")
}
