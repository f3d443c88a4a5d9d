// Package page writes the final standalone HTML report document.
package page

import (
	"bytes"
	_ "embed"
	htmltmpl "html/template"
	"os"
	"path/filepath"

	"github.com/haierkeys/deck-diff/internal/domain"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed assets/page.html.tmpl
var pageTemplate string

//go:embed assets/styles.css
var pageStyles string

// Stats summarizes a change set for the report header.
type Stats struct {
	Added    int
	Removed  int
	Modified int
}

// Count derives the per-kind counts from an entry sequence.
func Count(entries []*domain.ReportEntry) Stats {
	var s Stats
	for _, e := range entries {
		switch e.Kind {
		case domain.ChangeAdded:
			s.Added++
		case domain.ChangeRemoved:
			s.Removed++
		case domain.ChangeModified:
			s.Modified++
		}
	}
	return s
}

// Data is everything the page template consumes.
type Data struct {
	Title   string
	Commit  *domain.CommitInfo
	Parent  *domain.CommitInfo
	Stats   Stats
	Entries []*domain.ReportEntry
}

// Writer renders the report document.
type Writer struct {
	tmpl   *htmltmpl.Template
	logger *zap.Logger
}

// NewWriter parses the embedded page template.
func NewWriter(logger *zap.Logger) (*Writer, error) {
	tmpl, err := htmltmpl.New("page").Funcs(htmltmpl.FuncMap{
		// Entry HTML is produced by the renderers and already escaped
		// where needed; the page must not re-escape it.
		"safe": func(s string) htmltmpl.HTML { return htmltmpl.HTML(s) },
		"css":  func() htmltmpl.CSS { return htmltmpl.CSS(pageStyles) },
	}).Parse(pageTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parse page template")
	}
	return &Writer{tmpl: tmpl, logger: logger}, nil
}

// Write renders the document and replaces outputPath atomically, so a
// failed run never leaves a partial report behind.
func (w *Writer) Write(outputPath string, data *Data) error {
	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return errors.Wrap(err, "render report page")
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "create output dir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".deck-diff-*")
	if err != nil {
		return errors.Wrap(err, "create temp report file")
	}
	if _, err = tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write report")
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "close report file")
	}
	if err = os.Rename(tmp.Name(), outputPath); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "replace report %s", outputPath)
	}

	w.logger.Info("report written",
		zap.String("output", outputPath),
		zap.Int("entries", len(data.Entries)),
		zap.Int("bytes", buf.Len()))
	return nil
}
