package indexer

import (
	"fmt"
)

type PoapEvent struct {
	ID          int    `json:"id"`
	FancyID     string `json:"fancy_id"`
	Name        string `json:"name"`
	EventURL    string `json:"event_url"`
	ImageURL    string `json:"image_url"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Description string `json:"description"`
	Year        int    `json:"year"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	ExpiryDate  string `json:"expiry_date"`
	Supply      int    `json:"supply"`
}

// TokenInfo is one badge held by an address or reserved for an email.
type TokenInfo struct {
	TokenID string    `json:"tokenId"`
	Owner   string    `json:"owner"`
	Chain   string    `json:"chain"`
	Created string    `json:"created"`
	Event   PoapEvent `json:"event"`
}

// ENSResult is shared by both directions: for a forward resolution ENS holds
// the address, for a reverse lookup it holds the name.
type ENSResult struct {
	Valid bool   `json:"valid"`
	ENS   string `json:"ens"`
}

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"

	DefaultEventLimit = 100
)

type EventQuery struct {
	Name          string
	Offset        int
	Limit         int
	SortBy        string
	SortDirection SortDirection
}

// DefaultEventQuery sorts by name ascending, 100 per page.
func DefaultEventQuery(name string) EventQuery {
	return EventQuery{
		Name:          name,
		Limit:         DefaultEventLimit,
		SortBy:        "name",
		SortDirection: SortAscending,
	}
}

type PaginatedEvents struct {
	Items  []PoapEvent `json:"items"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// APIError is a non 2xx answer from the indexer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("indexer returned status %d", e.StatusCode)
	}
	return e.Message
}
