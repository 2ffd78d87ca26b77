package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"domq/config"
	"domq/state"
)

// buildOutputPath returns output file path for document. It uses either
// source file name or user-defined template and takes into account whether
// to preserve source directory structure on the output. Path segments are
// cleaned and, if requested, transliterated.
func buildOutputPath(d *Document, p *pipeline, dst string, env *state.LocalEnv) string {
	outDir := determineOutputDir(d.SrcName, dst, env)
	ext := p.format.Ext()

	if env.Cfg.Document.OutputNameTemplate != "" {
		expanded, err := expandTemplate(d, p, config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate)
		if err != nil {
			env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		} else if segments := splitPath(filepath.FromSlash(expanded)); len(segments) > 0 {
			parts := make([]string, 0, len(segments)+1)
			parts = append(parts, outDir)
			for _, s := range segments[:len(segments)-1] {
				parts = append(parts, cleanPathSegment(s, env))
			}
			parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+ext)
			return filepath.Join(parts...)
		}
		// fallback to default name if template expansion failed
	}

	base := strings.TrimSuffix(filepath.Base(d.SrcName), filepath.Ext(d.SrcName))
	return filepath.Join(outDir, cleanPathSegment(base, env)+ext)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

// splitPath returns non empty path segments.
func splitPath(path string) []string {
	var segments []string
	for head, tail := filepath.Split(strings.TrimSuffix(path, string(os.PathSeparator))); ; head, tail = filepath.Split(head) {
		if strings.TrimSpace(tail) != "" {
			segments = slices.Insert(segments, 0, tail)
		}
		trimmed := strings.TrimSuffix(head, string(os.PathSeparator))
		if trimmed == "" || trimmed == head && tail == "" {
			// nothing left or volume name
			break
		}
		head = trimmed
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
