// Package format reformats serialized markup. Formatters are opaque text
// to text transformations; the parser never depends on their output.
package format

import (
	"context"
	"errors"
)

// ErrNotInstalled is returned when an external formatter program cannot be
// found.
var ErrNotInstalled = errors.New("formatter not installed")

// Formatter reformats a serialized document.
type Formatter interface {
	Format(ctx context.Context, markup string) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, markup string) (string, error)

func (f FormatterFunc) Format(ctx context.Context, markup string) (string, error) {
	return f(ctx, markup)
}

// Identity returns its input unchanged.
var Identity Formatter = FormatterFunc(func(_ context.Context, markup string) (string, error) {
	return markup, nil
})

// New returns the formatter selected by cfg. A nil cfg means DefaultConfig.
func New(cfg *Config) (Formatter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Engine {
	case EngineMinify:
		return NewMinifier(cfg.Minify), nil
	case EngineTidy:
		return NewTidy(cfg.Tidy), nil
	case EngineIndent:
		return NewIndenter(cfg.Indent), nil
	}
	return Identity, nil
}
