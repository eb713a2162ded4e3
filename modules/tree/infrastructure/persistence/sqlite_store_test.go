package persistence

import (
	"context"
	"reflect"
	"testing"

	"github.com/gbarzani/orgchart/internal/seed"
	"github.com/gbarzani/orgchart/modules/tree/domain/ports"
	"github.com/gbarzani/orgchart/modules/tree/domain/types"
	"github.com/gbarzani/orgchart/pkg/nestedset"
)

func newSeededStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := seed.Load(ctx, store); err != nil {
		t.Fatalf("seed.Load: %v", err)
	}
	return store
}

func allBounds(t *testing.T, store *SQLiteStore) []nestedset.Bounds {
	t.Helper()
	ctx := context.Background()
	count, err := store.CountNodes(ctx)
	if err != nil {
		t.Fatalf("CountNodes: %v", err)
	}
	nodes, err := store.ListNodes(ctx, int(count), 0)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	if int64(len(nodes)) != count {
		t.Fatalf("ListNodes returned %d nodes, count says %d", len(nodes), count)
	}
	bounds := make([]nestedset.Bounds, len(nodes))
	for i, n := range nodes {
		bounds[i] = n.Bounds()
	}
	return bounds
}

func TestGetNodeSeeded(t *testing.T) {
	store := newSeededStore(t)

	company, err := store.GetNode(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if company.Left != 1 || company.Right != 24 || company.Level != 1 {
		t.Fatalf("company = %+v", company)
	}
	if company.ChildrenCount() != 11 {
		t.Fatalf("company children count = %d, want 11", company.ChildrenCount())
	}
	if company.Names["Italian"] != "Azienda" {
		t.Fatalf("company names = %v", company.Names)
	}
}

func TestGetNodeMissing(t *testing.T) {
	store := newSeededStore(t)
	if _, err := store.GetNode(context.Background(), 999999); err != ports.ErrNodeNotFound {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestListNodesPreOrder(t *testing.T) {
	store := newSeededStore(t)
	nodes, err := store.ListNodes(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}

	wantIDs := []int64{5, 1, 2, 3, 4, 6, 7, 11, 8, 9, 10, 12}
	var gotIDs []int64
	for _, n := range nodes {
		gotIDs = append(gotIDs, n.ID)
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("pre-order ids = %v, want %v", gotIDs, wantIDs)
	}
}

func TestPaginationReassembly(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	full, err := store.ListNodes(ctx, 100, 0)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}

	var paged []int64
	for offset := 0; ; offset += 5 {
		page, err := store.ListNodes(ctx, 5, offset)
		if err != nil {
			t.Fatalf("ListNodes offset %d: %v", offset, err)
		}
		if len(page) == 0 {
			break
		}
		for _, n := range page {
			paged = append(paged, n.ID)
		}
	}

	if len(paged) != len(full) {
		t.Fatalf("pages reassemble to %d nodes, want %d", len(paged), len(full))
	}
	for i, n := range full {
		if paged[i] != n.ID {
			t.Fatalf("page reassembly diverges at %d: got %d, want %d", i, paged[i], n.ID)
		}
	}
}

func TestListSubtree(t *testing.T) {
	store := newSeededStore(t)

	// Sales (12,19) holds North America, Italy, Europe in pre-order.
	nodes, err := store.ListSubtree(context.Background(), 12, 19)
	if err != nil {
		t.Fatalf("ListSubtree: %v", err)
	}
	wantIDs := []int64{11, 8, 9}
	var gotIDs []int64
	for _, n := range nodes {
		gotIDs = append(gotIDs, n.ID)
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("subtree ids = %v, want %v", gotIDs, wantIDs)
	}
}

func TestIdempotentReads(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	first, err := store.ListNodes(ctx, 100, 0)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	second, err := store.ListNodes(ctx, 100, 0)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated identical reads differ")
	}
}

func TestInsertShiftScenario(t *testing.T) {
	// Root R with children A then B; inserting C under A must shift B by
	// +2 and nest C strictly inside A, in pre-order between A and B.
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	root := int64(1)
	if err := store.Seed(ctx, []types.Node{
		{ID: 1, Level: 1, Left: 1, Right: 6, Names: map[string]string{"English": "R", "Italian": "R"}},
		{ID: 2, ParentID: &root, Level: 2, Left: 2, Right: 3, Names: map[string]string{"English": "A", "Italian": "A"}},
		{ID: 3, ParentID: &root, Level: 2, Left: 4, Right: 5, Names: map[string]string{"English": "B", "Italian": "B"}},
	}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	c, err := store.InsertLastChild(ctx, 2, map[string]string{"English": "C", "Italian": "C"}, "req-c")
	if err != nil {
		t.Fatalf("InsertLastChild: %v", err)
	}
	if c.Left != 3 || c.Right != 4 || c.Level != 3 {
		t.Fatalf("C = %+v, want bounds (3,4) level 3", c)
	}

	a, _ := store.GetNode(ctx, 2)
	b, _ := store.GetNode(ctx, 3)
	r, _ := store.GetNode(ctx, 1)

	if a.Left != 2 || a.Right != 5 {
		t.Fatalf("A = (%d,%d), want (2,5)", a.Left, a.Right)
	}
	if b.Left != 6 || b.Right != 7 {
		t.Fatalf("B = (%d,%d), want (4,5) shifted by +2", b.Left, b.Right)
	}
	if r.Left != 1 || r.Right != 8 {
		t.Fatalf("R = (%d,%d), want (1,8)", r.Left, r.Right)
	}
	if !a.Bounds().Contains(c.Bounds()) {
		t.Fatalf("C not nested inside A")
	}

	nodes, err := store.ListNodes(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	wantIDs := []int64{1, 2, c.ID, 3}
	var gotIDs []int64
	for _, n := range nodes {
		gotIDs = append(gotIDs, n.ID)
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("pre-order after insert = %v, want %v", gotIDs, wantIDs)
	}
}

func TestInvariantsAfterInsertSequence(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	inserts := []struct {
		parent int64
		name   string
	}{
		{5, "Human Resources"},
		{1, "Social Media"},
		{7, "Asia"},
		{8, "Milan"},
		{8, "Rome"},
		{5, "Legal"},
	}
	for i, ins := range inserts {
		if _, err := store.InsertLastChild(ctx, ins.parent, map[string]string{
			"English": ins.name, "Italian": ins.name,
		}, "req-seq"+string(rune('a'+i))); err != nil {
			t.Fatalf("insert %q under %d: %v", ins.name, ins.parent, err)
		}
	}

	if err := nestedset.Validate(allBounds(t, store)); err != nil {
		t.Fatalf("invariants violated after inserts: %v", err)
	}

	// children_count from the width arithmetic must equal the strict
	// containment count over the whole tree.
	nodes, err := store.ListNodes(ctx, 100, 0)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	for _, n := range nodes {
		var contained int64
		for _, m := range nodes {
			if n.Bounds().Contains(m.Bounds()) {
				contained++
			}
		}
		if got := n.ChildrenCount(); got != contained {
			t.Fatalf("node %d: children count %d, containment says %d", n.ID, got, contained)
		}
	}

	// Milan and Rome landed under Italy, which started with none.
	italy, err := store.GetNode(ctx, 8)
	if err != nil {
		t.Fatalf("GetNode(8): %v", err)
	}
	if italy.ChildrenCount() != 2 {
		t.Fatalf("Italy children count = %d, want 2", italy.ChildrenCount())
	}
}

func TestInsertParentMissing(t *testing.T) {
	store := newSeededStore(t)
	_, err := store.InsertLastChild(context.Background(), 999999, map[string]string{
		"English": "X", "Italian": "Y",
	}, "req-missing")
	if err != ports.ErrNodeNotFound {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestInsertJournal(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	created, err := store.InsertLastChild(ctx, 5, map[string]string{
		"English": "Human Resources", "Italian": "Risorse Umane",
	}, "req-journal")
	if err != nil {
		t.Fatalf("InsertLastChild: %v", err)
	}

	recs, err := store.ListInsertions(ctx, 10)
	if err != nil {
		t.Fatalf("ListInsertions: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(recs))
	}
	rec := recs[0]
	if rec.RequestID != "req-journal" || rec.NodeID != created.ID || rec.ParentID != 5 {
		t.Fatalf("journal entry = %+v", rec)
	}
	if rec.InsertedAt.IsZero() {
		t.Fatalf("journal entry has zero timestamp")
	}
}

func TestSeedRefusesNonEmptyStore(t *testing.T) {
	store := newSeededStore(t)
	if err := seed.Load(context.Background(), store); err == nil {
		t.Fatalf("expected second seed to fail")
	}
}
