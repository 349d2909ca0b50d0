package indexer

import (
	"time"

	"github.com/sahilm/fuzzy"
)

type YearGroup struct {
	Year   int
	Tokens []TokenInfo
}

// GroupByYear buckets tokens by event year, from now's year (or the newest
// badge year if later) down to the oldest badge year. Years without badges
// are kept with no tokens.
func GroupByYear(tokens []TokenInfo, now time.Time) []YearGroup {
	if len(tokens) == 0 {
		return nil
	}
	byYear := map[int][]TokenInfo{}
	oldest, newest := tokens[0].Event.Year, now.Year()
	for _, t := range tokens {
		byYear[t.Event.Year] = append(byYear[t.Event.Year], t)
		oldest = min(oldest, t.Event.Year)
		newest = max(newest, t.Event.Year)
	}

	res := []YearGroup{}
	for year := newest; year >= oldest; year-- {
		res = append(res, YearGroup{Year: year, Tokens: byYear[year]})
	}
	return res
}

// TokenIDs returns the ids in listing order.
func TokenIDs(tokens []TokenInfo) []string {
	ids := make([]string, 0, len(tokens))
	for _, t := range tokens {
		ids = append(ids, t.TokenID)
	}
	return ids
}

type eventNames []PoapEvent

func (e eventNames) String(i int) string { return e[i].Name }
func (e eventNames) Len() int            { return len(e) }

// RankEvents orders events by how well their name fuzzy matches pattern and
// drops the ones that don't match at all.
func RankEvents(events []PoapEvent, pattern string) []PoapEvent {
	if pattern == "" {
		return events
	}
	matches := fuzzy.FindFrom(pattern, eventNames(events))
	res := make([]PoapEvent, 0, len(matches))
	for _, m := range matches {
		res = append(res, events[m.Index])
	}
	return res
}
