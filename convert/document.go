package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"domq/common"
	"domq/config"
	"domq/dom/xhtml"
	"domq/dom"
	"domq/query"
	"domq/state"
)

// pipeline keeps everything compiled once per run and applied to every
// processed document.
type pipeline struct {
	format   common.OutputFmt
	strategy common.Strategy
	cfg      *config.DocumentConfig

	selector string
	content  *query.Matcher // nil selects whole document
	remove   []*query.Matcher
	title    *query.Matcher
	html     *query.Matcher
	all      *query.Matcher
}

// newPipeline compiles configured selectors. Selector from command line
// overrides configured one.
func newPipeline(cfg *config.DocumentConfig, format common.OutputFmt, strategy common.Strategy, selector string) (*pipeline, error) {
	p := &pipeline{
		format:   format,
		strategy: strategy,
		cfg:      cfg,
		selector: cfg.Selector,
		title:    query.MustCompile("head > title"),
		html:     query.MustCompile("html"),
		all:      query.MustCompile("*"),
	}
	if selector != "" {
		p.selector = selector
	}

	var err error
	if strings.TrimSpace(p.selector) != "" {
		if p.content, err = query.CompileStrategy(p.selector, strategy); err != nil {
			return nil, fmt.Errorf("unable to compile content selector: %w", err)
		}
	}
	for _, sel := range cfg.Cleanup.Remove {
		m, e := query.CompileStrategy(sel, strategy)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to compile cleanup selector: %w", e))
			continue
		}
		p.remove = append(p.remove, m)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Document is a parsed source document with cleanup applied and content
// roots selected.
type Document struct {
	SrcName string
	Kind    docKind
	Title   string
	Lang    string

	doc     *query.Document
	content *query.Selection
}

// Content returns selected content roots.
func (d *Document) Content() *query.Selection {
	return d.content
}

// parse builds document tree. Decoded input (BOM was present) goes straight
// to the parser, otherwise HTML parser detects charset itself.
func parse(r io.Reader, kind docKind, enc srcEncoding, log *zap.Logger) (*dom.Tree, error) {
	switch {
	case kind == kindXHTML:
		return xhtml.Parse(selectReader(r, enc), log)
	case enc != encUnknown:
		return dom.Parse(selectReader(r, enc), log)
	default:
		return dom.ParseWithCharset(r, "", log)
	}
}

// prepare parses document and applies configured cleanup and selection.
func (p *pipeline) prepare(ctx context.Context, r io.Reader, srcName string, kind docKind, enc srcEncoding, log *zap.Logger) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	tree, err := parse(r, kind, enc, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s source: %w", kind, err)
	}
	doc := query.FromTree(tree, log)

	d := &Document{
		SrcName: srcName,
		Kind:    kind,
		Title:   strings.TrimSpace(doc.SelectSingleMatcher(p.title).Text()),
		Lang:    doc.SelectSingleMatcher(p.html).AttrOr("lang", ""),
		doc:     doc,
	}

	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("parsed/%s.txt", filepath.Base(srcName)), []byte(tree.Dump(tree.RootID())))
	}

	p.cleanup(doc, log)

	d.content = doc.Selection
	if p.content != nil {
		d.content = doc.SelectMatcher(p.content)
		if d.content.IsEmpty() {
			return nil, fmt.Errorf("content selector %q matched nothing", p.selector)
		}
		log.Debug("Content selected", zap.String("selector", p.selector), zap.Stringer("strategy", p.content.Strategy()), zap.Int("roots", d.content.Length()))
	}

	if env.Rpt != nil {
		var b strings.Builder
		for _, n := range d.content.Nodes() {
			b.WriteString(tree.Dump(n.ID()))
		}
		env.Rpt.StoreData(fmt.Sprintf("prepared/%s.txt", filepath.Base(srcName)), []byte(b.String()))
	}
	return d, nil
}

// cleanup detaches nodes matching remove selectors, strips configured
// elements, drops attributes and merges adjacent text nodes.
func (p *pipeline) cleanup(doc *query.Document, log *zap.Logger) {
	removed := 0
	for _, m := range p.remove {
		sel := doc.SelectMatcher(m)
		removed += sel.Length()
		sel.Remove()
	}
	if strip := p.cfg.Cleanup.Strip; len(strip) > 0 {
		doc.StripElements(strip...)
	}
	if attrs := p.cfg.Cleanup.RemoveAttrs; len(attrs) > 0 {
		doc.SelectMatcher(p.all).RemoveAttrs(attrs...)
	}
	if p.cfg.Cleanup.Normalize {
		doc.Normalize()
	}
	log.Debug("Cleanup done", zap.Int("removed", removed), zap.Strings("stripped", p.cfg.Cleanup.Strip))
}

// language returns document language, falling back to configured one.
func (p *pipeline) language(d *Document, log *zap.Logger) language.Tag {
	if d.Lang != "" {
		if tag, err := language.Parse(d.Lang); err == nil {
			return tag
		}
		log.Debug("Unable to parse document language", zap.String("lang", d.Lang))
	}
	tag, err := language.Parse(p.cfg.Text.Language)
	if err != nil {
		return language.English
	}
	return tag
}
