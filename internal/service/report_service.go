package service

import (
	"errors"
	"html"

	"github.com/haierkeys/deck-diff/internal/domain"
	"github.com/haierkeys/deck-diff/internal/media"
	"github.com/haierkeys/deck-diff/internal/render"
	"github.com/haierkeys/deck-diff/pkg/diffmark"
	"github.com/haierkeys/deck-diff/pkg/template"

	"go.uber.org/zap"
)

// ReportService aggregates classified changes into the ordered report
// entry sequence consumed by the page writer. Pure aggregation: no file or
// document assembly happens here.
type ReportService interface {
	Assemble(changes []*domain.NoteChange) ([]*domain.ReportEntry, error)
}

type reportService struct {
	resolver domain.MediaResolver
	logger   *zap.Logger
}

// NewReportService creates a ReportService instance. resolver maps media
// filenames to output-relative paths and may be nil when media handling is
// disabled.
func NewReportService(resolver domain.MediaResolver, logger *zap.Logger) ReportService {
	return &reportService{resolver: resolver, logger: logger}
}

// Assemble renders both sides of every change: the old note for Removed
// and Modified, the new note for Added and Modified. A RenderError inside
// one note becomes an inline placeholder in that entry so the rest of the
// report still completes; any other error aborts the run.
func (s *reportService) Assemble(changes []*domain.NoteChange) ([]*domain.ReportEntry, error) {
	entries := make([]*domain.ReportEntry, 0, len(changes))
	for _, change := range changes {
		renderer := render.ForModel(change.Model)
		ctx := render.Context{ChangedFields: change.ChangedFieldSet()}

		entry := &domain.ReportEntry{
			Kind:      change.Kind,
			GUID:      change.GUID(),
			DeckPath:  change.DeckPath,
			ModelName: change.Model.Name,
		}
		if change.New != nil {
			entry.Tags = change.New.Tags
		} else if change.Old != nil {
			entry.Tags = change.Old.Tags
		}

		var err error
		if change.Old != nil {
			entry.Before, err = s.renderCard(renderer, change.Old, ctx)
			if err != nil {
				return nil, err
			}
		}
		if change.New != nil {
			entry.After, err = s.renderCard(renderer, change.New, ctx)
			if err != nil {
				return nil, err
			}
		}
		entry.Fields = fieldViews(change.Fields)
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *reportService) renderCard(renderer render.Renderer, note *domain.Note, ctx render.Context) (*domain.RenderedCard, error) {
	card := &domain.RenderedCard{}
	var err error

	ctx.Side = render.SideFront
	card.Front, err = renderer.Render(note, ctx)
	if err != nil {
		if card.Front, err = s.recover(note, err); err != nil {
			return nil, err
		}
	}

	ctx.Side = render.SideBack
	card.Back, err = renderer.Render(note, ctx)
	if err != nil {
		if card.Back, err = s.recover(note, err); err != nil {
			return nil, err
		}
	}

	if s.resolver != nil {
		card.Front = media.RewriteHTML(card.Front, s.resolver)
		card.Back = media.RewriteHTML(card.Back, s.resolver)
	}
	return card, nil
}

// recover turns a RenderError confined to one note into a visible inline
// placeholder. This is the sole local-recovery policy; everything else
// stays fatal.
func (s *reportService) recover(note *domain.Note, err error) (string, error) {
	var rerr *template.RenderError
	if !errors.As(err, &rerr) {
		return "", err
	}
	s.logger.Warn("note template failed to render",
		zap.String("guid", note.GUID),
		zap.Error(rerr))
	return `<div class="render-error">template error: ` + html.EscapeString(rerr.Error()) + `</div>`, nil
}

func fieldViews(diffs []domain.FieldDiff) []domain.FieldDiffView {
	views := make([]domain.FieldDiffView, 0, len(diffs))
	for _, fd := range diffs {
		view := domain.FieldDiffView{Name: fd.Name, Kind: fd.Kind}
		switch fd.Kind {
		case domain.FieldChanged:
			view.Old, view.New = diffmark.Highlight(fd.Old, fd.New)
		default:
			view.Old = html.EscapeString(fd.Old)
			view.New = html.EscapeString(fd.New)
		}
		views = append(views, view)
	}
	return views
}
