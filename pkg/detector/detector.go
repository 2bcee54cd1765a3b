// Package detector maps datalog column names onto semantic channels.
//
// Column names are compared by their normalized key against per-channel
// synonym lists. The synonym tables are plain data (see DefaultSynonyms)
// so they can be extended from configuration without touching the
// scoring rules.
package detector

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Match scores. A prefix match is also a containment match, so it scores
// ScoreContains.
const (
	ScoreExact    = 100
	ScoreContains = 60

	// ShortSynonymLen is the longest synonym that must match a whole token.
	ShortSynonymLen = 3
)

// Match is the field chosen for a channel and the score it won with.
type Match struct {
	Field string `json:"field"`
	Score int    `json:"score"`
}

// ChannelMap holds at most one resolved field per channel. A channel
// absent from the map is unresolved.
type ChannelMap map[Channel]Match

// Field returns the field resolved for c.
func (m ChannelMap) Field(c Channel) (string, bool) {
	match, ok := m[c]
	return match.Field, ok
}

// Resolver selects columns for channels.
type Resolver struct {
	synonyms   map[Channel][]string
	minScore   int
	minReverse int
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithMinScore sets the lowest score a match is accepted at (default 40).
func WithMinScore(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.minScore = n
		}
	}
}

// WithMinReverseMatchLen sets the shortest field key that may match by
// being contained in a synonym (default 2).
func WithMinReverseMatchLen(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.minReverse = n
		}
	}
}

// WithSynonyms appends extra synonyms after the built-in ones. Synonyms
// are normalized before use; empty ones are dropped.
func WithSynonyms(extra map[Channel][]string) Option {
	return func(r *Resolver) {
		for c, words := range extra {
			for _, w := range words {
				if key := NormalizeKey(w); key != "" {
					r.synonyms[c] = append(r.synonyms[c], key)
				}
			}
		}
	}
}

// New creates a Resolver with the built-in synonym tables.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		synonyms:   DefaultSynonyms(),
		minScore:   40,
		minReverse: 2,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Synonyms returns the resolver's synonym list for c.
func (r *Resolver) Synonyms(c Channel) []string {
	return append([]string(nil), r.synonyms[c]...)
}

// Resolve picks the best field for each channel. A field serves at most
// one channel: the highest-scoring (channel, field) pairs are assigned
// first, equal scores going to the earlier channel and then to the field
// that comes first in fields.
func (r *Resolver) Resolve(fields []string) ChannelMap {
	names := prepareAll(fields)

	type pick struct {
		channel Channel
		field   int
		score   int
	}
	var picks []pick
	for _, c := range Channels() {
		for i := range fields {
			if s := r.fieldScore(c, names[i]); s >= r.minScore {
				picks = append(picks, pick{channel: c, field: i, score: s})
			}
		}
	}
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].score > picks[j].score
	})

	m := make(ChannelMap)
	taken := make(map[int]bool, len(fields))
	for _, p := range picks {
		if _, done := m[p.channel]; done || taken[p.field] {
			continue
		}
		m[p.channel] = Match{Field: fields[p.field], Score: p.score}
		taken[p.field] = true
	}
	return m
}

// Candidates returns every field that scores above zero for c, best first.
// Fields with equal scores keep their source order. Fields claimed by other
// channels in Resolve are still listed.
func (r *Resolver) Candidates(c Channel, fields []string) []Match {
	names := prepareAll(fields)
	var out []Match
	for i, field := range fields {
		if s := r.fieldScore(c, names[i]); s > 0 {
			out = append(out, Match{Field: field, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// MinScore returns the acceptance threshold.
func (r *Resolver) MinScore() int {
	return r.minScore
}

// fieldName is a field prepared for matching: its normalized key and the
// normalized tokens of the original name.
type fieldName struct {
	key    string
	tokens []string
}

// fieldScore is the best score of a field across the channel's synonyms.
func (r *Resolver) fieldScore(c Channel, name fieldName) int {
	if name.key == "" {
		return 0
	}
	best := 0
	for _, syn := range r.synonyms[c] {
		if s := r.score(name, syn); s > best {
			best = s
			if best == ScoreExact {
				break
			}
		}
	}
	return best
}

// score compares a field with one synonym. Synonyms of ShortSynonymLen
// runes or fewer match inside a longer name only as a whole token, so
// "tps" does not hit "Boost (psi)". A key shorter than minReverse only
// matches by containing the synonym.
func (r *Resolver) score(name fieldName, syn string) int {
	switch {
	case name.key == syn:
		return ScoreExact
	case utf8.RuneCountInString(syn) <= ShortSynonymLen:
		for _, tok := range name.tokens {
			if tok == syn {
				return ScoreContains
			}
		}
		return 0
	case strings.Contains(name.key, syn):
		return ScoreContains
	case len(name.key) >= r.minReverse && strings.Contains(syn, name.key):
		return ScoreContains
	default:
		return 0
	}
}

func prepareAll(fields []string) []fieldName {
	names := make([]fieldName, len(fields))
	for i, f := range fields {
		names[i] = fieldName{key: NormalizeKey(f), tokens: Tokens(f)}
	}
	return names
}
