package pagination

import (
	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/repository"
)

// Args are the relay-style page arguments. Zero values mean "absent".
// First and Last both just bound the page size; whichever is set is used,
// First winning when both are. Mutual exclusivity is not enforced here.
type Args struct {
	First  int
	Last   int
	Before string
	After  string
}

type Edge struct {
	Cursor string         `json:"cursor"`
	Node   models.Message `json:"node"`
}

type PageInfo struct {
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

type Connection struct {
	Edges    []Edge   `json:"edges"`
	PageInfo PageInfo `json:"page_info"`
}

// MessagePager is the slice of the message store the paginator reads from.
// Both calls are read-only.
type MessagePager interface {
	FindGroupPage(groupID uint, filter *repository.IDFilter, limit int) ([]models.Message, error)
	ExistsInGroup(groupID uint, filter *repository.IDFilter, ascending bool) (bool, error)
}

type Paginator struct {
	messages MessagePager
}

func NewPaginator(messages MessagePager) *Paginator {
	return &Paginator{messages: messages}
}

// Page resolves one feed page for a group. Messages always come back newest
// first (descending by id) regardless of which cursor was supplied:
//
//	Before means strictly newer than the cursor (id > decoded)
//	After means strictly older than the cursor (id < decoded)
//
// The comparator is the integer id, never the timestamp.
func (p *Paginator) Page(groupID uint, args Args) (*Connection, error) {
	limit := args.First
	if limit <= 0 {
		limit = args.Last
	}

	var filter *repository.IDFilter
	beforeSet := args.Before != ""
	if beforeSet {
		id, err := Decode(args.Before)
		if err != nil {
			return nil, err
		}
		filter = &repository.IDFilter{Op: repository.OpGT, Value: id}
	}
	if args.After != "" {
		id, err := Decode(args.After)
		if err != nil {
			return nil, err
		}
		filter = &repository.IDFilter{Op: repository.OpLT, Value: id}
	}

	messages, err := p.messages.FindGroupPage(groupID, filter, limit)
	if err != nil {
		return nil, err
	}

	edges := make([]Edge, 0, len(messages))
	for _, m := range messages {
		edges = append(edges, Edge{Cursor: Encode(m.ID), Node: m})
	}

	// A short page cannot have a next page; only a full page warrants the
	// extra existence probe past the last returned id. The probe keeps the
	// polarity of the constraint that produced the page: newer-than when
	// Before drove it, older-than otherwise.
	hasNext := false
	if limit > 0 && len(messages) == limit {
		op := repository.OpLT
		if beforeSet {
			op = repository.OpGT
		}
		probe := &repository.IDFilter{Op: op, Value: messages[len(messages)-1].ID}
		hasNext, err = p.messages.ExistsInGroup(groupID, probe, false)
		if err != nil {
			return nil, err
		}
	}

	// The previous-page probe reuses the exact filter recorded for this page,
	// ascending, existence only. With no cursor it degenerates to "does the
	// group have any message at all".
	hasPrev, err := p.messages.ExistsInGroup(groupID, filter, true)
	if err != nil {
		return nil, err
	}

	return &Connection{
		Edges:    edges,
		PageInfo: PageInfo{HasNextPage: hasNext, HasPreviousPage: hasPrev},
	}, nil
}
