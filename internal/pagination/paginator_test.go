package pagination

import (
	"sort"
	"testing"

	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/repository"
)

// fakePager backs the paginator with a fixed set of message ids in one group.
type fakePager struct {
	groupID uint
	ids     []uint
}

func (f *fakePager) matching(groupID uint, filter *repository.IDFilter) []uint {
	if groupID != f.groupID {
		return nil
	}
	var out []uint
	for _, id := range f.ids {
		if filter.Matches(id) {
			out = append(out, id)
		}
	}
	return out
}

func (f *fakePager) FindGroupPage(groupID uint, filter *repository.IDFilter, limit int) ([]models.Message, error) {
	ids := f.matching(groupID, filter)
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	messages := make([]models.Message, 0, len(ids))
	for _, id := range ids {
		messages = append(messages, models.Message{ID: id, GroupID: groupID, Text: "m"})
	}
	return messages, nil
}

func (f *fakePager) ExistsInGroup(groupID uint, filter *repository.IDFilter, ascending bool) (bool, error) {
	return len(f.matching(groupID, filter)) > 0, nil
}

func edgeIDs(conn *Connection) []uint {
	ids := make([]uint, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		ids = append(ids, e.Node.ID)
	}
	return ids
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPageFirst(t *testing.T) {
	pager := &fakePager{groupID: 1, ids: []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	p := NewPaginator(pager)

	conn, err := p.Page(1, Args{First: 3})
	if err != nil {
		t.Fatalf("Page error = %v", err)
	}
	if !equalIDs(edgeIDs(conn), []uint{10, 9, 8}) {
		t.Errorf("edges = %v, want [10 9 8]", edgeIDs(conn))
	}
	if !conn.PageInfo.HasNextPage {
		t.Errorf("HasNextPage = false with older messages remaining")
	}
	// Without a cursor the previous-page probe degenerates to "any message
	// in the group at all".
	if !conn.PageInfo.HasPreviousPage {
		t.Errorf("HasPreviousPage = false for a non-empty group")
	}
}

func TestPageAfter(t *testing.T) {
	pager := &fakePager{groupID: 1, ids: []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	p := NewPaginator(pager)

	conn, err := p.Page(1, Args{First: 3, After: Encode(7)})
	if err != nil {
		t.Fatalf("Page error = %v", err)
	}
	if !equalIDs(edgeIDs(conn), []uint{6, 5, 4}) {
		t.Errorf("edges = %v, want [6 5 4]", edgeIDs(conn))
	}
	if !conn.PageInfo.HasNextPage {
		t.Errorf("HasNextPage = false with ids 1..3 remaining")
	}
	if !conn.PageInfo.HasPreviousPage {
		t.Errorf("HasPreviousPage = false with messages matching the page filter")
	}
}

func TestPageBefore(t *testing.T) {
	pager := &fakePager{groupID: 1, ids: []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	p := NewPaginator(pager)

	// Before keeps newest-first order: only ids above the cursor qualify.
	conn, err := p.Page(1, Args{First: 5, Before: Encode(7)})
	if err != nil {
		t.Fatalf("Page error = %v", err)
	}
	if !equalIDs(edgeIDs(conn), []uint{10, 9, 8}) {
		t.Errorf("edges = %v, want [10 9 8]", edgeIDs(conn))
	}
	if conn.PageInfo.HasNextPage {
		t.Errorf("HasNextPage = true on a short page")
	}
	if !conn.PageInfo.HasPreviousPage {
		t.Errorf("HasPreviousPage = false with messages above the cursor")
	}
}

func TestPageBeforeProbePolarity(t *testing.T) {
	pager := &fakePager{groupID: 1, ids: []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	p := NewPaginator(pager)

	// A full Before page probes with the same newer-than polarity, anchored
	// at the smallest id returned.
	conn, err := p.Page(1, Args{First: 2, Before: Encode(7)})
	if err != nil {
		t.Fatalf("Page error = %v", err)
	}
	if !equalIDs(edgeIDs(conn), []uint{10, 9}) {
		t.Errorf("edges = %v, want [10 9]", edgeIDs(conn))
	}
	if !conn.PageInfo.HasNextPage {
		t.Errorf("HasNextPage = false, want the newer-than probe to fire above id 9")
	}
}

func TestPageLast(t *testing.T) {
	pager := &fakePager{groupID: 1, ids: []uint{1, 2, 3, 4, 5}}
	p := NewPaginator(pager)

	// Last bounds the page size the same way First does; order stays
	// newest first.
	conn, err := p.Page(1, Args{Last: 2})
	if err != nil {
		t.Fatalf("Page error = %v", err)
	}
	if !equalIDs(edgeIDs(conn), []uint{5, 4}) {
		t.Errorf("edges = %v, want [5 4]", edgeIDs(conn))
	}
}

func TestPageShortPage(t *testing.T) {
	pager := &fakePager{groupID: 1, ids: []uint{1, 2}}
	p := NewPaginator(pager)

	conn, err := p.Page(1, Args{First: 5})
	if err != nil {
		t.Fatalf("Page error = %v", err)
	}
	if len(conn.Edges) != 2 {
		t.Errorf("got %d edges, want 2", len(conn.Edges))
	}
	if conn.PageInfo.HasNextPage {
		t.Errorf("HasNextPage = true on a short page")
	}
}

func TestPageEmptyGroup(t *testing.T) {
	pager := &fakePager{groupID: 1}
	p := NewPaginator(pager)

	conn, err := p.Page(1, Args{First: 5})
	if err != nil {
		t.Fatalf("Page error = %v", err)
	}
	if len(conn.Edges) != 0 {
		t.Errorf("got %d edges, want 0", len(conn.Edges))
	}
	if conn.PageInfo.HasNextPage || conn.PageInfo.HasPreviousPage {
		t.Errorf("page info = %+v, want all false for an empty group", conn.PageInfo)
	}
}

func TestPageInvalidCursor(t *testing.T) {
	p := NewPaginator(&fakePager{groupID: 1, ids: []uint{1}})

	if _, err := p.Page(1, Args{First: 3, After: "???"}); err != ErrInvalidCursor {
		t.Errorf("Page(after=garbage) error = %v, want ErrInvalidCursor", err)
	}
	if _, err := p.Page(1, Args{First: 3, Before: "???"}); err != ErrInvalidCursor {
		t.Errorf("Page(before=garbage) error = %v, want ErrInvalidCursor", err)
	}
}

func TestPageCursorsRoundTrip(t *testing.T) {
	pager := &fakePager{groupID: 1, ids: []uint{3, 7, 11}}
	p := NewPaginator(pager)

	conn, err := p.Page(1, Args{First: 3})
	if err != nil {
		t.Fatalf("Page error = %v", err)
	}
	for _, edge := range conn.Edges {
		id, err := Decode(edge.Cursor)
		if err != nil {
			t.Errorf("edge cursor %q does not decode: %v", edge.Cursor, err)
			continue
		}
		if id != edge.Node.ID {
			t.Errorf("cursor decodes to %d, node id is %d", id, edge.Node.ID)
		}
	}
}
