package ai

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// stopWords are capitalized words that start sentences far more often than they name anything.
var stopWords = map[string]bool{
	"i": true, "i'm": true, "i've": true, "i'll": true, "i'd": true,
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"the": true, "of": true, "and": true, "a": true, "an": true, "but": true, "or": true,
	"to": true, "in": true, "on": true, "for": true, "at": true, "by": true, "so": true,
	"is": true, "it": true, "as": true, "be": true, "was": true, "we": true, "he": true,
	"she": true, "they": true, "you": true, "my": true, "our": true, "if": true, "then": true,
	"are": true, "been": true, "with": true, "from": true, "into": true, "when": true,
	"that": true, "this": true, "has": true, "have": true, "had": true, "today": true,
	"his": true, "her": true, "its": true, "their": true, "yesterday": true, "tomorrow": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
	"saturday": true, "sunday": true, "todo": true, "note": true, "notes": true,
}

var capitalized = regexp.MustCompile(`\p{Lu}[\p{L}'’-]*(?:[ \t]+\p{Lu}[\p{L}'’-]*)*`)

var _ Extractor = (*Dictionary)(nil)

// Dictionary is an offline extractor. It finds known names anywhere in the text,
// ignoring case, and proposes capitalized phrases as new names.
type Dictionary struct {
	mu    sync.RWMutex
	ac    *ahocorasick.AhoCorasick
	names []string
}

func NewDictionary(names []string) *Dictionary {
	d := &Dictionary{}
	d.Reload(names)
	return d
}

// Reload replaces the known names.
func (d *Dictionary) Reload(names []string) {
	patterns := make([]string, 0, len(names))
	canonical := make([]string, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		patterns = append(patterns, key)
		canonical = append(canonical, strings.TrimSpace(name))
	}

	var ac *ahocorasick.AhoCorasick
	if len(patterns) > 0 {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  true,
			MatchKind:            ahocorasick.LeftMostLongestMatch,
		})
		automaton := builder.Build(patterns)
		ac = &automaton
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ac = ac
	d.names = canonical
}

type mention struct {
	start, end int
	name       string
}

func (d *Dictionary) Extract(ctx context.Context, text string) ([]string, error) {
	var mentions []mention

	// offsets index text itself, so it must not be case-folded first
	d.mu.RLock()
	if d.ac != nil {
		for _, m := range d.ac.FindAll(text) {
			mentions = append(mentions, mention{start: m.Start(), end: m.End(), name: d.names[m.Pattern()]})
		}
	}
	d.mu.RUnlock()

	known := len(mentions)
	for _, loc := range capitalized.FindAllStringIndex(text, -1) {
		if overlaps(mentions[:known], loc[0], loc[1]) {
			continue
		}
		if name := trimStopWords(text[loc[0]:loc[1]]); name != "" {
			mentions = append(mentions, mention{start: loc[0], end: loc[1], name: name})
		}
	}

	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].start < mentions[j].start
	})

	names := make([]string, 0, len(mentions))
	for _, m := range mentions {
		names = append(names, m.name)
	}

	return names, nil
}

func overlaps(mentions []mention, start, end int) bool {
	for _, m := range mentions {
		if start < m.end && m.start < end {
			return true
		}
	}
	return false
}

// trimStopWords drops leading and trailing stop words of a capitalized phrase.
func trimStopWords(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 0 && stopWords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	for len(words) > 0 && stopWords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	if len(words) == 0 || (len(words) == 1 && len([]rune(words[0])) < 2) {
		return ""
	}
	return strings.Join(words, " ")
}
