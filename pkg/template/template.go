// Package template evaluates deck card templates: field substitution,
// conditional sections and cloze markers. Rendering is pure; identical
// input always produces identical output.
package template

import (
	"regexp"
	"strconv"
	"strings"
)

// Options controls one render call.
type Options struct {
	// Tags expands the {{Tags}} special.
	Tags []string
	// IsAnswer selects back-side semantics: {{FrontSide}} expands and
	// revealed cloze markers show their answer text.
	IsAnswer bool
	// FrontSide is the already rendered front, expanded by {{FrontSide}}
	// on the answer side.
	FrontSide string
	// RevealedCloze is the marker index under test. Markers with another
	// index always render their answer; the revealed index renders a
	// hint-or-blank placeholder on the front and the answer on the back.
	// Zero reveals every marker.
	RevealedCloze int
}

// RenderError reports malformed token syntax. Unknown field references are
// not errors; they render as the empty string.
type RenderError struct {
	Reason string
	Token  string
}

func (e *RenderError) Error() string {
	if e.Token != "" {
		return "template render error: " + e.Reason + ": " + e.Token
	}
	return "template render error: " + e.Reason
}

var clozeRe = regexp.MustCompile(`(?s)\{\{c(\d+)::(.*?)\}\}`)
var clozeHeadRe = regexp.MustCompile(`^c(\d+)::`)

// Render evaluates tpl against the field values.
func Render(tpl string, fields map[string]string, opts Options) (string, error) {
	var b strings.Builder
	rest := tpl
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:open])
		rest = rest[open:]

		closeIdx := strings.Index(rest, "}}")
		if closeIdx < 0 {
			return "", &RenderError{Reason: "unterminated token", Token: clip(rest)}
		}
		token := rest[2:closeIdx]
		rest = rest[closeIdx+2:]

		switch {
		case strings.HasPrefix(token, "#"), strings.HasPrefix(token, "^"):
			name := strings.TrimSpace(token[1:])
			closeTag := "{{/" + name + "}}"
			end := strings.Index(rest, closeTag)
			if end < 0 {
				return "", &RenderError{Reason: "unterminated conditional section", Token: token}
			}
			content := rest[:end]
			rest = rest[end+len(closeTag):]

			nonEmpty := strings.TrimSpace(fields[name]) != ""
			show := nonEmpty
			if strings.HasPrefix(token, "^") {
				show = !nonEmpty
			}
			if show {
				rendered, err := Render(content, fields, opts)
				if err != nil {
					return "", err
				}
				b.WriteString(rendered)
			}

		case strings.HasPrefix(token, "/"):
			return "", &RenderError{Reason: "section close without open", Token: token}

		case clozeHeadRe.MatchString(token):
			b.WriteString(expandClozes("{{"+token+"}}", opts))

		case strings.HasPrefix(token, "cloze:"):
			name := strings.TrimSpace(strings.TrimPrefix(token, "cloze:"))
			b.WriteString(expandClozes(fields[name], opts))

		case token == "FrontSide":
			if opts.IsAnswer {
				b.WriteString(opts.FrontSide)
			}

		case token == "Tags":
			b.WriteString(strings.Join(opts.Tags, " "))

		default:
			// Field values may carry cloze markers of their own.
			b.WriteString(expandClozes(fields[strings.TrimSpace(token)], opts))
		}
	}
}

// ExpandClozeMarkers rewrites the cloze markers of a bare field value
// without treating the rest of the value as template syntax.
func ExpandClozeMarkers(value string, opts Options) string {
	return expandClozes(value, opts)
}

// expandClozes rewrites every {{cN::answer}} / {{cN::answer::hint}} marker
// in s according to the reveal state. Image-occlusion markers are consumed
// silently; the occlusion renderer draws their overlays instead.
func expandClozes(s string, opts Options) string {
	return clozeRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := clozeRe.FindStringSubmatch(m)
		idx, _ := strconv.Atoi(sub[1])
		answer := sub[2]
		hint := ""
		if at := strings.Index(answer, "::"); at >= 0 {
			hint = answer[at+2:]
			answer = answer[:at]
		}
		if strings.HasPrefix(answer, "image-occlusion:") {
			return ""
		}
		ord := strconv.Itoa(idx)
		if opts.RevealedCloze == idx && !opts.IsAnswer {
			placeholder := "[...]"
			if hint != "" {
				placeholder = "[" + hint + "]"
			}
			return `<span class="cloze-hidden" data-cloze="` + ord + `">` + placeholder + `</span>`
		}
		return `<span class="cloze" data-cloze="` + ord + `">` + answer + `</span>`
	})
}

func clip(s string) string {
	if len(s) > 24 {
		return s[:24]
	}
	return s
}
