// Package replacement applies a regular expression and a replacement template to
// filenames. It knows nothing about directories or the filesystem; the planner
// feeds it one base name at a time.
package replacement

import (
	"path/filepath"
	"regexp"

	"rxrename/internal/errors"
)

// Options tune how the engine applies the pattern.
type Options struct {
	// FirstOnly replaces only the leftmost match instead of every non-overlapping match.
	FirstOnly bool
	// KeepExtension applies the pattern to the name without its final extension and
	// re-appends the extension afterwards.
	KeepExtension bool
}

// Engine is a compiled pattern and template pair.
type Engine struct {
	re       *regexp.Regexp
	template *Template
	source   string
	opts     Options
}

// NewEngine compiles pattern and parses template. A pattern that does not compile
// is reported as an ArgumentError.
func NewEngine(pattern, template string, opts Options) (*Engine, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.NewArgumentError("invalid regex "+pattern, err)
	}

	return &Engine{
		re:       re,
		template: ParseTemplate(template, re.NumSubexp(), re.SubexpNames()),
		source:   template,
		opts:     opts,
	}, nil
}

// Rename returns the transformed name and whether the pattern matched at all.
// A name the pattern does not match is returned unchanged.
func (e *Engine) Rename(name string) (string, bool) {
	subject, ext := name, ""
	if e.opts.KeepExtension {
		ext = filepath.Ext(name)
		if ext == name {
			// ".bashrc" has no stem; treat it as all stem.
			ext = ""
		}
		subject = name[:len(name)-len(ext)]
	}

	limit := -1
	if e.opts.FirstOnly {
		limit = 1
	}

	matches := e.re.FindAllStringSubmatchIndex(subject, limit)
	if len(matches) == 0 {
		return name, false
	}

	out := make([]byte, 0, len(name)+len(e.source))
	last := 0
	for _, loc := range matches {
		out = append(out, subject[last:loc[0]]...)
		out = e.template.expand(out, subject, loc)
		last = loc[1]
	}
	out = append(out, subject[last:]...)
	out = append(out, ext...)

	return string(out), true
}

// Pattern returns the source text of the compiled regular expression.
func (e *Engine) Pattern() string {
	return e.re.String()
}

// Template returns the unparsed replacement template.
func (e *Engine) Template() string {
	return e.source
}
