package flow

import (
	"strings"

	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

// HighlighterStage wraps every case-insensitive occurrence of any term in
// the given string-valued fields with openTag/closeTag. Non-string and
// unresolved field values pass through untouched.
type HighlighterStage struct {
	base
	keys              []*lookup.Key
	terms             []string
	openTag, closeTag string
}

// NewHighlighter builds a Highlighter stage over upstream that tags
// occurrences of terms in keys' string values.
func NewHighlighter(upstream Stage, keys []*lookup.Key, terms []string, openTag, closeTag string) *HighlighterStage {
	return &HighlighterStage{base: base{upstream: upstream}, keys: keys, terms: terms, openTag: openTag, closeTag: closeTag}
}

func (h *HighlighterStage) Type() Type { return TypeHighlighter }

func (h *HighlighterStage) Next(res *sresult.SearchResult) Status {
	st := pull(h.upstream, res)
	if st != StatusOK {
		return st
	}

	for _, k := range h.keys {
		v := res.Row.Get(k.DstIdx())
		if v.Kind() != value.KindString {
			continue
		}
		tagged := h.tag(value.StringVal(v))
		res.Row.Set(k.DstIdx(), value.NewString(tagged, value.OwnershipOwned))
	}
	return StatusOK
}

// tag wraps every case-insensitive occurrence of any configured term in
// text with openTag/closeTag. Overlapping matches are resolved
// left-to-right, longest term first, so "red car" highlighted against
// terms ["red", "red car"] tags the whole phrase once rather than just
// its prefix.
func (h *HighlighterStage) tag(text string) string {
	if len(h.terms) == 0 || text == "" {
		return text
	}
	terms := make([]string, len(h.terms))
	copy(terms, h.terms)
	for i := range terms {
		for j := i + 1; j < len(terms); j++ {
			if len(terms[j]) > len(terms[i]) {
				terms[i], terms[j] = terms[j], terms[i]
			}
		}
	}

	lower := strings.ToLower(text)
	var b strings.Builder
	i := 0
	for i < len(text) {
		matched := ""
		for _, t := range terms {
			if t == "" {
				continue
			}
			lt := strings.ToLower(t)
			if strings.HasPrefix(lower[i:], lt) {
				matched = text[i : i+len(lt)]
				break
			}
		}
		if matched != "" {
			b.WriteString(h.openTag)
			b.WriteString(matched)
			b.WriteString(h.closeTag)
			i += len(matched)
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}
