// Package common holds enums shared by configuration, query layer and
// command line tool so that none of them has to import the others.
package common

//go:generate go tool go-enum --marshal --nocase --mustparse --names

// Selector matching strategy.
// ENUM(auto, full, mini)
type Strategy int

// Requested output type.
// ENUM(html, markdown, xhtml, text)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtHtml:
		return ".html"
	case OutputFmtMarkdown:
		return ".md"
	case OutputFmtXhtml:
		return ".xhtml"
	case OutputFmtText:
		return ".txt"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
