package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"domq/common"
	"domq/dom/markdown"
	"domq/dom/text"
	"domq/dom/xhtml"
	"domq/dom"
	"domq/query"
	"domq/state"
)

// Select prints every node matching selector in requested format. Input is
// read from file or from standard input.
func Select(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("select")

	selector := cmd.Args().Get(0)
	if strings.TrimSpace(selector) == "" {
		return errors.New("no selector has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many inputs", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format, err := common.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to html", zap.Error(err))
		format = common.OutputFmtHtml
	}
	strategy, err := env.Strategy(cmd.String("strategy"))
	if err != nil {
		return fmt.Errorf("unknown matching strategy: %w", err)
	}
	m, err := query.CompileStrategy(selector, strategy)
	if err != nil {
		return err
	}

	name := cmd.Args().Get(1)
	data, err := readInput(cmd, name)
	if err != nil {
		return err
	}
	kind, enc := sniff(data, name)
	if kind == kindUnknown {
		return fmt.Errorf("input was not recognized as HTML document (%s)", inputName(name))
	}
	tree, err := parse(bytes.NewReader(data), kind, enc, log)
	if err != nil {
		return fmt.Errorf("unable to parse %s source: %w", kind, err)
	}

	sel := query.FromTree(tree, log).SelectMatcher(m)
	log.Debug("Selector applied", zap.String("selector", selector), zap.Stringer("strategy", m.Strategy()), zap.Int("matches", sel.Length()))
	if sel.IsEmpty() {
		log.Warn("Nothing matched", zap.String("selector", selector), zap.String("input", inputName(name)))
		return nil
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	cfg := &env.Cfg.Document
	for _, n := range sel.Nodes() {
		var s string
		if cmd.Bool("path") {
			s = n.CSSPath()
		} else if s, err = formatNode(n, format, cfg.Markdown.SkipTags, cfg.XHTML.Indent); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, strings.TrimRight(s, "\n")); err != nil {
			return err
		}
	}
	return nil
}

func formatNode(n dom.Node, format common.OutputFmt, skipTags []string, indent int) (string, error) {
	switch format {
	case common.OutputFmtHtml:
		return n.HTML(), nil
	case common.OutputFmtMarkdown:
		return markdown.SerializeNode(n, skipTags), nil
	case common.OutputFmtXhtml:
		return xhtml.Serialize(n, indent)
	case common.OutputFmtText:
		return text.Formatted(n), nil
	}
	return "", fmt.Errorf("unsupported output format %s", format)
}

func readInput(cmd *cli.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		in := cmd.Root().Reader
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("unable to read standard input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read input: %w", err)
	}
	return data, nil
}

func inputName(name string) string {
	if name == "" || name == "-" {
		return "stdin"
	}
	return name
}
