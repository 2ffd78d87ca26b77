package convert

import (
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"

	"domq/common"
	"domq/dom/text"
	"domq/dom/xhtml"
	"domq/dom"
)

// render produces output in requested format for selected content.
func (p *pipeline) render(d *Document, log *zap.Logger) ([]byte, error) {
	sel := d.Content()
	switch p.format {
	case common.OutputFmtHtml:
		return []byte(strings.Join(sel.Map(func(_ int, n dom.Node) string { return n.HTML() }), "\n") + "\n"), nil
	case common.OutputFmtMarkdown:
		return []byte(sel.Markdown(p.cfg.Markdown.SkipTags) + "\n"), nil
	case common.OutputFmtXhtml:
		root := sel.Nodes()[0]
		if sel.Length() > 1 {
			root = gather(sel.Nodes(), log)
		}
		out, err := xhtml.Serialize(root, p.cfg.XHTML.Indent)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case common.OutputFmtText:
		out := sel.FormattedText()
		if p.cfg.Text.SplitSentences {
			out = strings.Join(sentences(out, text.NewSplitter(p.language(d, log), log)), "\n")
		}
		log.Debug("Text prepared", zap.Int("words", count(text.Words(out, true))))
		return []byte(out + "\n"), nil
	}
	return nil, fmt.Errorf("unsupported output format %s", p.format)
}

// gather copies nodes into a single fragment so they could be serialized as
// one XML document.
func gather(nodes []dom.Node, log *zap.Logger) dom.Node {
	frag := dom.NewFragment(log)
	root := frag.Root()
	for _, n := range nodes {
		c := frag.Node(frag.Merge(n.Tree(), n.ID()))
		if c.IsFragment() {
			// copy of a tree root, take its content
			first, ok := c.FirstChild()
			if !ok {
				continue
			}
			c = first
			if err := root.AppendChildren(c); err != nil {
				log.Debug("Gathered content dropped", zap.Stringer("node", c.Kind()), zap.Error(err))
			}
			continue
		}
		if err := root.AppendChild(c); err != nil {
			log.Debug("Gathered node dropped", zap.Stringer("node", c.Kind()), zap.Error(err))
		}
	}
	return root
}

// sentences splits every line of formatted text into sentences, one per
// line. Empty lines separating paragraphs are kept.
func sentences(in string, s *text.Splitter) []string {
	var out []string
	for line := range strings.Lines(in) {
		line = strings.TrimRight(line, "\n")
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		for _, sentence := range s.Split(line) {
			if sentence = strings.TrimSpace(sentence); sentence != "" {
				out = append(out, sentence)
			}
		}
	}
	return out
}

func count[T any](seq iter.Seq[T]) (n int) {
	for range seq {
		n++
	}
	return n
}
