// Package media extracts media references from note fields, copies the
// files next to the report and rewrites rendered HTML to the copied paths.
package media

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/haierkeys/deck-diff/internal/domain"

	"github.com/gookit/goutil/fsutil"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	imgRe   = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	soundRe = regexp.MustCompile(`\[sound:([^\]]+)\]`)
	urlRe   = regexp.MustCompile(`url\(["']?([^"')]+)["']?\)`)
)

// ExtractRefs collects the media filenames referenced by the given field
// values: <img src>, [sound:…] and css url(…) patterns. Paths reduce to
// bare filenames; the result is sorted and duplicate-free.
func ExtractRefs(fields []string) []string {
	seen := make(map[string]bool)
	for _, field := range fields {
		for _, m := range imgRe.FindAllStringSubmatch(field, -1) {
			seen[path.Base(m[1])] = true
		}
		for _, m := range soundRe.FindAllStringSubmatch(field, -1) {
			seen[m[1]] = true
		}
		for _, m := range urlRe.FindAllStringSubmatch(field, -1) {
			seen[path.Base(m[1])] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractFromChanges collects media references over both sides of every
// change.
func ExtractFromChanges(changes []*domain.NoteChange) []string {
	var fields []string
	for _, change := range changes {
		if change.Old != nil {
			fields = append(fields, change.Old.Fields...)
		}
		if change.New != nil {
			fields = append(fields, change.New.Fields...)
		}
	}
	return ExtractRefs(fields)
}

// RewriteHTML repoints <img> sources in rendered HTML at the
// output-relative paths supplied by the resolver. Absolute URLs and paths
// with directories are left alone.
func RewriteHTML(html string, resolver domain.MediaResolver) string {
	return imgRe.ReplaceAllStringFunc(html, func(tag string) string {
		src := imgRe.FindStringSubmatch(tag)[1]
		if strings.Contains(src, "/") || strings.HasPrefix(src, "http") {
			return tag
		}
		return strings.Replace(tag, src, resolver.Resolve(src), 1)
	})
}

// Handler copies referenced media files from the deck's media directory
// into a directory next to the report. It implements
// domain.MediaResolver for the path mapping the core consumes.
type Handler struct {
	sourceDir string
	outputDir string
	baseDir   string
	logger    *zap.Logger
}

// NewHandler creates a media Handler. deckFile is the deck.json path whose
// sibling media/ directory holds the sources; outputDir receives a baseDir
// subdirectory with the copies.
func NewHandler(deckFile, outputDir, baseDir string, logger *zap.Logger) *Handler {
	return &Handler{
		sourceDir: filepath.Join(filepath.Dir(deckFile), "media"),
		outputDir: filepath.Join(outputDir, baseDir),
		baseDir:   baseDir,
		logger:    logger,
	}
}

// Resolve maps a media filename to its output-relative path.
func (h *Handler) Resolve(filename string) string {
	return path.Join(h.baseDir, filename)
}

// Copy copies the named files and returns the name to output-relative-path
// mapping for everything copied. A missing source file is logged and
// skipped, not fatal: the report is still useful with a broken image.
func (h *Handler) Copy(names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	if err := fsutil.Mkdir(h.outputDir, os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "create media output dir %s", h.outputDir)
	}

	copied := make(map[string]string, len(names))
	for _, name := range names {
		src := filepath.Join(h.sourceDir, name)
		if !fsutil.FileExists(src) {
			h.logger.Warn("media file not found", zap.String("file", name))
			continue
		}
		dst := filepath.Join(h.outputDir, name)
		if err := fsutil.CopyFile(src, dst); err != nil {
			return nil, errors.Wrapf(err, "copy media file %s", name)
		}
		copied[name] = h.Resolve(name)
	}
	h.logger.Info("media files copied", zap.Int("count", len(copied)))
	return copied, nil
}
