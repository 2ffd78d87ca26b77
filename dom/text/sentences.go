package text

import (
	"iter"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Splitter breaks text into sentences. Nil splitter returns text unchanged.
type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// Only English training data is built into tokenizer module.
var englishTokenizer = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// NewSplitter returns splitter for language, nil (sentence splitting is off)
// when there is no tokenizer for it.
func NewSplitter(lang language.Tag, log *zap.Logger) *Splitter {
	if log == nil {
		log = zap.NewNop()
	}
	base, confidence := lang.Base()
	if confidence == language.No {
		log.Warn("Unable to determine language base", zap.Stringer("tag", lang), zap.Stringer("base", base))
		return nil
	}
	if base.String() != "en" {
		log.Warn("No sentence tokenizer for language, turning off sentence splitting",
			zap.Stringer("tag", lang), zap.String("language", display.English.Languages().Name(lang)))
		return nil
	}
	tokenizer, err := englishTokenizer()
	if err != nil {
		log.Warn("Unable to load sentences tokenizer data", zap.Stringer("tag", lang), zap.Error(err))
		return nil
	}
	return &Splitter{tokenizer}
}

// Sentences splits English text into sentences. Whitespace separating
// sentences stays with the preceding one.
func Sentences(in string) []string {
	return NewSplitter(language.English, nil).Split(in)
}

// Split returns sentences of in.
func (s *Splitter) Split(in string) []string {
	return slices.Collect(s.Sentences(in))
}

// Sentences iterates over sentences of in. Whitespace separating sentences
// stays with the preceding one, tokenizer attaches it to the following.
func (s *Splitter) Sentences(in string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if s == nil {
			yield(in)
			return
		}
		tokens := s.Tokenize(in)
		for i, tok := range tokens {
			text := tok.Text
			if i+1 < len(tokens) {
				next := tokens[i+1].Text
				lead := len(next) - len(strings.TrimLeftFunc(next, unicode.IsSpace))
				text += next[:lead]
				tokens[i+1].Text = next[lead:]
			}
			if !yield(text) {
				return
			}
		}
	}
}

// Words iterates over words of in. NBSP separates words only when
// breakNBSP is set.
func Words(in string, breakNBSP bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		var word strings.Builder
		for _, sym := range in {
			if !isSeparator(sym, breakNBSP) {
				word.WriteRune(sym)
				continue
			}
			if word.Len() > 0 && !yield(word.String()) {
				return
			}
			word.Reset()
		}
		if word.Len() > 0 {
			yield(word.String())
		}
	}
}

func isSeparator(r rune, breakNBSP bool) bool {
	if uint32(r) <= unicode.MaxLatin1 {
		switch r {
		case '\t', '\n', '\v', '\f', '\r', ' ', 0x85:
			return true
		case 0xA0:
			return breakNBSP
		}
		return false
	}
	return unicode.IsSpace(r)
}
