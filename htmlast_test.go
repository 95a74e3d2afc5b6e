package htmlast

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dpotapov/go-htmlast/dom"
	"github.com/dpotapov/go-htmlast/format"
	"github.com/dpotapov/go-htmlast/html"
	"github.com/dpotapov/go-htmlast/render"
	"github.com/dpotapov/go-htmlast/visit"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

func TestParseEncoding(t *testing.T) {
	utf16 := []byte{0xFF, 0xFE}
	for _, r := range "<p>x\u00E9</p>" {
		utf16 = append(utf16, byte(r), byte(r>>8))
	}

	tests := []struct {
		name     string
		input    []byte
		opts     []Option
		wantEnc  string
		wantText string
	}{
		{
			name:     "ascii",
			input:    []byte("<p>hi</p>"),
			wantEnc:  "windows-1252",
			wantText: "hi",
		},
		{
			name:     "utf-8 heuristic",
			input:    []byte("<p>caf\xC3\xA9</p>"),
			wantEnc:  "utf-8",
			wantText: "caf\u00E9",
		},
		{
			name:     "meta charset",
			input:    []byte(`<meta charset="iso-8859-1"><p>caf` + "\xE9</p>"),
			wantEnc:  "windows-1252",
			wantText: "caf\u00E9",
		},
		{
			name:     "content type",
			input:    []byte("<p>caf\xE9</p>"),
			opts:     []Option{WithContentType("text/html; charset=latin1")},
			wantEnc:  "windows-1252",
			wantText: "caf\u00E9",
		},
		{
			name:     "forced",
			input:    []byte("<p>caf\xE9</p>"),
			opts:     []Option{WithEncoding("latin1")},
			wantEnc:  "windows-1252",
			wantText: "caf\u00E9",
		},
		{
			name:     "utf-16 bom",
			input:    utf16,
			wantEnc:  "utf-16le",
			wantText: "x\u00E9",
		},
		{
			name:     "bom overrides forced encoding",
			input:    []byte("\xEF\xBB\xBF<p>caf\xC3\xA9</p>"),
			opts:     []Option{WithEncoding("latin1")},
			wantEnc:  "utf-8",
			wantText: "caf\u00E9",
		},
		{
			name:  "custom sniffer",
			input: []byte("<p>hi</p>"),
			opts: []Option{WithSniffer(SnifferFunc(func([]byte, string) (encoding.Encoding, string) {
				return unicode.UTF8, "utf-8"
			}))},
			wantEnc:  "utf-8",
			wantText: "hi",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := New(tc.opts...).ParseBytes(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.wantEnc, res.Encoding)
			p := visit.FindFirst(res.Document, res.Document.Root(), "p")
			require.NotEqual(t, dom.None, p)
			require.Equal(t, tc.wantText, res.Document.Text(p))
		})
	}
}

func TestParseUnknownEncoding(t *testing.T) {
	_, err := Parse(strings.NewReader("<p>x"), WithEncoding("klingon"))
	require.ErrorIs(t, err, ErrUnknownEncoding)
	var fatal *html.FatalError
	require.True(t, errors.As(err, &fatal))
}

func TestParseErrors(t *testing.T) {
	res, err := Parse(strings.NewReader("<p>a</b>"))
	require.NoError(t, err)
	require.Equal(t, []html.ErrorCode{html.ErrMissingDoctype, html.ErrUnexpectedEndTag}, res.Errors.Codes())
	require.Error(t, res.Errors.Err())
}

func TestParseOptions(t *testing.T) {
	const noscript = `<!DOCTYPE html><body><noscript><p>x</p></noscript>`

	res, err := Parse(strings.NewReader(noscript))
	require.NoError(t, err)
	require.Equal(t, dom.None, visit.FindFirst(res.Document, res.Document.Root(), "p"))
	require.True(t, res.Scripting)

	res, err = Parse(strings.NewReader(noscript), WithScripting(false))
	require.NoError(t, err)
	require.NotEqual(t, dom.None, visit.FindFirst(res.Document, res.Document.Root(), "p"))

	res, err = Parse(strings.NewReader(`<body><noscript>1 &lt;i&gt;</noscript>`), WithScripting(false))
	require.NoError(t, err)
	require.False(t, res.Scripting)
	var sb strings.Builder
	require.NoError(t, RenderDocument(&sb, res.Document, res.RenderOptions()))
	require.Contains(t, sb.String(), `<noscript>1 &lt;i&gt;</noscript>`)

	res, err = Parse(strings.NewReader("<td>x"), WithFragmentContext("tr"))
	require.NoError(t, err)
	doc := res.Document
	td := doc.FirstChild(doc.DocumentElement())
	require.Equal(t, "td", doc.Data(td))
	require.Equal(t, "x", doc.Text(td))

	_, err = Parse(strings.NewReader("<td>x"), WithFragmentContext("my tag"))
	var fatal *html.FatalError
	require.True(t, errors.As(err, &fatal))
	require.ErrorIs(t, err, dom.ErrInvalidTagName)
}

func TestParseLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Parse(strings.NewReader("<p>a</b>"), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	require.Equal(t, 2, strings.Count(out, `msg="Parse error"`), out)
	require.Contains(t, out, "code=missing-doctype")
	require.Contains(t, out, "code=unexpected-end-tag")
	require.Contains(t, out, "line=1 col=5")
	require.Contains(t, out, "near=<p>a</p>")

	buf.Reset()
	_, err = Parse(strings.NewReader("<p>"), WithLogger(logger), WithEncoding("klingon"))
	require.Error(t, err)
	require.Contains(t, buf.String(), "level=ERROR")
}

func TestRenderDocument(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  render.Options
		want  string
	}{
		{
			name:  "missing doctype",
			input: "<p>x",
			want:  "<!DOCTYPE html><html><head></head><body><p>x</p></body></html>",
		},
		{
			name:  "existing doctype",
			input: "<!doctype html><p>x",
			want:  "<!DOCTYPE html><html><head></head><body><p>x</p></body></html>",
		},
		{
			name:  "xml",
			input: "<p>x",
			opts:  render.Options{Flavor: render.XML},
			want:  `<html xmlns="http://www.w3.org/1999/xhtml"><head/><body><p>x</p></body></html>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Parse(strings.NewReader(tc.input))
			require.NoError(t, err)
			var sb strings.Builder
			require.NoError(t, RenderDocument(&sb, res.Document, tc.opts))
			require.Equal(t, tc.want, sb.String())
		})
	}
}

func TestPretty(t *testing.T) {
	res, err := Parse(strings.NewReader("<p>x"))
	require.NoError(t, err)
	const plain = "<!DOCTYPE html><html><head></head><body><p>x</p></body></html>"
	ctx := context.Background()

	out, err := Pretty(ctx, res.Document, nil)
	require.NoError(t, err)
	require.Equal(t, plain, out)

	upper := format.FormatterFunc(func(_ context.Context, s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	out, err = Pretty(ctx, res.Document, upper)
	require.NoError(t, err)
	require.Equal(t, strings.ToUpper(plain), out)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	missing := format.NewTidy(format.TidyConfig{Path: "htmlast-no-such-tidy"})
	out, err = Pretty(ctx, res.Document, missing, WithLogger(logger))
	require.NoError(t, err)
	require.Equal(t, plain, out)
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "formatter not installed")
}
