// Package report writes a descriptive-statistics Summary in one of the
// supported output formats.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"statdesc/domain/stats"
	"statdesc/internal/errors"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

type writerFunc func(io.Writer, *stats.Summary) error

var writers = map[Format]writerFunc{
	FormatText:     WriteText,
	FormatMarkdown: WriteMarkdown,
	FormatHTML:     WriteHTML,
	FormatJSON:     WriteJSON,
	FormatYAML:     WriteYAML,
}

// ParseFormat accepts a format name case-insensitively; "md" is markdown.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		f = FormatMarkdown
	}
	if _, ok := writers[f]; !ok {
		return "", errors.InvalidInput(fmt.Sprintf("unknown report format %q", s))
	}
	return f, nil
}

// Write writes s to w in the named format.
func Write(w io.Writer, format string, s *stats.Summary) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if s == nil {
		return errors.InternalError("nil summary")
	}
	if err := writers[f](w, s); err != nil {
		return errors.WithCode(errors.CodeIOError, errors.Wrapf(err, "write %s report", f))
	}
	return nil
}

// WriteJSON writes the summary as indented JSON. Undefined values are null.
func WriteJSON(w io.Writer, s *stats.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteYAML writes the summary as YAML. Undefined values are null.
func WriteYAML(w io.Writer, s *stats.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
