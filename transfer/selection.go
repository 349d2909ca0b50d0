package transfer

import (
	"slices"
)

// TokenID is the indexer's identifier of a badge, a decimal string.
type TokenID string

func TokenIDs(ids []string) []TokenID {
	res := make([]TokenID, 0, len(ids))
	for _, id := range ids {
		res = append(res, TokenID(id))
	}
	return res
}

// Selection is an ordered, duplicate free set of token ids plus the select
// mode flag. It is a value: every operation returns a new Selection and
// never touches the receiver's backing array.
type Selection struct {
	active bool
	ids    []TokenID
}

// NewSelection is in select mode only when it holds ids.
func NewSelection(ids ...TokenID) Selection {
	if len(ids) == 0 {
		return Selection{}
	}
	return Selection{}.Add(ids...)
}

func (s Selection) Active() bool { return s.active }
func (s Selection) Len() int     { return len(s.ids) }

// IDs returns a copy in selection order.
func (s Selection) IDs() []TokenID {
	return slices.Clone(s.ids)
}

func (s Selection) Contains(id TokenID) bool {
	return slices.Contains(s.ids, id)
}

// Activate enters select mode keeping the current ids.
func (s Selection) Activate() Selection {
	return Selection{active: true, ids: s.ids}
}

// Add appends the ids not selected yet and enters select mode.
func (s Selection) Add(ids ...TokenID) Selection {
	next := slices.Clone(s.ids)
	for _, id := range ids {
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	return Selection{active: true, ids: next}
}

func (s Selection) Remove(id TokenID) Selection {
	next := make([]TokenID, 0, len(s.ids))
	for _, cur := range s.ids {
		if cur != id {
			next = append(next, cur)
		}
	}
	return Selection{active: s.active, ids: next}
}

func (s Selection) Toggle(id TokenID) Selection {
	if s.Contains(id) {
		return s.Remove(id)
	}
	return s.Add(id)
}

// SelectAll replaces the selection with every owned id.
func (s Selection) SelectAll(owned []TokenID) Selection {
	return Selection{active: true}.Add(owned...)
}

// Clear empties the selection and leaves select mode.
func (s Selection) Clear() Selection {
	return Selection{}
}

// Retain drops ids no longer owned, e.g. after a refresh.
func (s Selection) Retain(owned []TokenID) Selection {
	next := make([]TokenID, 0, len(s.ids))
	for _, id := range s.ids {
		if slices.Contains(owned, id) {
			next = append(next, id)
		}
	}
	return Selection{active: s.active, ids: next}
}
