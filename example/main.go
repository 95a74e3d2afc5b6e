package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/dpotapov/go-htmlast"
	"github.com/dpotapov/go-htmlast/format"
	"github.com/dpotapov/go-htmlast/query"
	"github.com/dpotapov/go-htmlast/render"
)

func LoggerMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("HTTP request", "method", r.Method, "url", r.URL)
		next.ServeHTTP(w, r)
	})
}

// renderHandler parses the request body and answers with the re-serialized
// document. The flavor query parameter selects "html" (default), "xml" or
// "text".
type renderHandler struct {
	logger *slog.Logger
}

func (h *renderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	p := htmlast.New(
		htmlast.WithLogger(h.logger),
		htmlast.WithContentType(r.Header.Get("Content-Type")),
		htmlast.WithFragmentContext(r.URL.Query().Get("context")),
	)
	res, err := p.Parse(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("X-Parse-Errors", strconv.Itoa(len(res.Errors)))
	opts := res.RenderOptions()
	switch r.URL.Query().Get("flavor") {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, render.PlainText(res.Document, res.Document.Root()))
		return
	case "xml":
		opts.Flavor = render.XML
		w.Header().Set("Content-Type", "application/xhtml+xml; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if err := htmlast.RenderDocument(w, res.Document, opts); err != nil {
		h.logger.Error("Render document", "error", err)
	}
}

func main() {
	var (
		addr     = flag.String("addr", "", "serve POST / on this address instead of processing a file")
		xml      = flag.Bool("xml", false, "render XML instead of HTML")
		text     = flag.Bool("text", false, "print the document as plain text")
		indent   = flag.Int("indent", 0, "indent block level HTML by this many spaces")
		cfgPath  = flag.String("format", "", "YAML formatter configuration; formats HTML output")
		selector = flag.String("query", "", "print only the nodes matching this expression")
		fragment = flag.String("context", "", "parse the input as the content of this element")
		verbose  = flag.Bool("v", false, "log parse errors")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if *addr != "" {
		logger.Info("Starting HTTP server", "address", *addr)
		err := http.ListenAndServe(*addr, LoggerMiddleware(&renderHandler{logger: logger}, logger))
		logger.Error("HTTP server error", "error", err)
		os.Exit(1)
	}

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logger.Error("Open input", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	cfg := runConfig{
		xml:      *xml,
		text:     *text,
		indent:   *indent,
		format:   *cfgPath,
		selector: *selector,
		fragment: *fragment,
	}
	if err := run(in, os.Stdout, logger, cfg); err != nil {
		logger.Error("Process document", "error", err)
		os.Exit(1)
	}
}

type runConfig struct {
	xml, text bool
	indent    int
	format    string
	selector  string
	fragment  string
}

func run(in io.Reader, out io.Writer, logger *slog.Logger, cfg runConfig) error {
	res, err := htmlast.Parse(in, htmlast.WithLogger(logger), htmlast.WithFragmentContext(cfg.fragment))
	if err != nil {
		return err
	}
	logger.Info("Parsed document", "encoding", res.Encoding, "errors", len(res.Errors), "nodes", res.Document.Len())
	doc := res.Document

	opts := res.RenderOptions()
	opts.Indent = strings.Repeat(" ", max(cfg.indent, 0))
	if cfg.xml {
		opts.Flavor = render.XML
	}

	if cfg.selector != "" {
		s, err := query.Compile(cfg.selector)
		if err != nil {
			return err
		}
		ids, err := s.Select(doc, doc.Root())
		if err != nil {
			return err
		}
		for _, id := range ids {
			if cfg.text {
				_, err = io.WriteString(out, render.PlainText(doc, id))
			} else {
				err = render.Render(out, doc, id, opts)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		return nil
	}

	if cfg.text {
		_, err = fmt.Fprintln(out, render.PlainText(doc, doc.Root()))
		return err
	}
	if cfg.format == "" || cfg.xml {
		return htmlast.RenderDocument(out, doc, opts)
	}
	fc, err := format.LoadConfigFile(cfg.format)
	if err != nil {
		return err
	}
	f, err := format.New(fc)
	if err != nil {
		return err
	}
	s, err := htmlast.Pretty(context.Background(), doc, f, htmlast.WithLogger(logger))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, s)
	return err
}
