package query

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/bobmcallan/finquery/internal/models"
)

// symbolTokenRe matches bare uppercase ticker tokens (AAPL, F, BRK-B).
var symbolTokenRe = regexp.MustCompile(`\b[A-Z]{1,5}(?:-[A-Z])?\b`)

type mention struct {
	pos    int
	symbol string
}

type span struct {
	start, end int
}

// ResolveTickers maps company names and bare symbols mentioned in the text
// to canonical tickers, de-duplicated in first-mention order. Aliases are
// matched longest-first so overlapping names resolve to the most specific
// entry; bare tokens are only accepted when they are known symbols.
// Returns UnresolvedEntity when the text names no resolvable security.
func ResolveTickers(tables *Tables, text string) ([]string, error) {
	lower := strings.ToLower(text)

	var consumed []span
	var mentions []mention

	for _, alias := range tables.aliases {
		offset := 0
		for {
			i := strings.Index(lower[offset:], alias.name)
			if i < 0 {
				break
			}
			start := offset + i
			end := start + len(alias.name)
			offset = end
			if !wordBounded(lower, start, end) {
				continue
			}
			if overlapsAny(consumed, start, end) {
				continue
			}
			consumed = append(consumed, span{start, end})
			mentions = append(mentions, mention{pos: start, symbol: alias.symbol})
		}
	}

	// Bare symbol tokens, validated against the known-symbol set. Spans
	// already claimed by an alias are skipped.
	for _, loc := range symbolTokenRe.FindAllStringIndex(text, -1) {
		token := text[loc[0]:loc[1]]
		if !tables.KnownSymbol(token) {
			continue
		}
		if overlapsAny(consumed, loc[0], loc[1]) {
			continue
		}
		mentions = append(mentions, mention{pos: loc[0], symbol: token})
	}

	sort.Slice(mentions, func(i, j int) bool { return mentions[i].pos < mentions[j].pos })

	seen := make(map[string]struct{}, len(mentions))
	tickers := make([]string, 0, len(mentions))
	for _, m := range mentions {
		if _, ok := seen[m.symbol]; ok {
			continue
		}
		seen[m.symbol] = struct{}{}
		tickers = append(tickers, m.symbol)
	}

	if len(tickers) == 0 {
		return nil, models.NewQueryError(models.ErrUnresolvedEntity, "no recognizable company or ticker in question")
	}

	return tickers, nil
}

// wordBounded reports whether text[start:end] sits on word boundaries.
func wordBounded(text string, start, end int) bool {
	if start > 0 {
		r := rune(text[start-1])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r := rune(text[end])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func overlapsAny(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}
