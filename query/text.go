package query

import (
	"strings"

	"domq/dom/markdown"
	"domq/dom/text"
	"domq/dom"
)

// Text returns concatenated text content of selected nodes.
func (s *Selection) Text() string {
	var b strings.Builder
	for _, id := range s.ids {
		b.WriteString(s.tree.Text(id))
	}
	return b.String()
}

// ImmediateText returns concatenated text of direct text children of
// selected nodes.
func (s *Selection) ImmediateText() string {
	var b strings.Builder
	for _, id := range s.ids {
		b.WriteString(s.tree.ImmediateText(id))
	}
	return b.String()
}

// FormattedText returns readable text of selected nodes with paragraphs
// and line breaks kept, see text.Formatted. Results for several nodes are
// separated by a new line.
func (s *Selection) FormattedText() string {
	return s.joined("\n", text.Formatted)
}

// Markdown renders selected nodes as Markdown, nil skipTags means
// markdown.DefaultSkipTags. Results for several nodes are separated by an
// empty line.
func (s *Selection) Markdown(skipTags []string) string {
	return s.joined("\n\n", func(n dom.Node) string { return markdown.Serialize(n, skipTags) })
}

// HTML returns outer HTML of all selected nodes.
func (s *Selection) HTML() string {
	var b strings.Builder
	for _, id := range s.ids {
		b.WriteString(s.tree.HTML(id))
	}
	return b.String()
}

// InnerHTML returns inner HTML of all selected nodes.
func (s *Selection) InnerHTML() string {
	var b strings.Builder
	for _, id := range s.ids {
		b.WriteString(s.tree.InnerHTML(id))
	}
	return b.String()
}

// TryHTML is HTML reporting false for empty selection.
func (s *Selection) TryHTML() (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.HTML(), true
}

// TryInnerHTML is InnerHTML reporting false for empty selection.
func (s *Selection) TryInnerHTML() (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.InnerHTML(), true
}

func (s *Selection) joined(sep string, f func(dom.Node) string) string {
	parts := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		if p := f(s.node(id)); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, sep)
}
