package services

import (
	"context"
	"strings"
	"testing"

	"github.com/gbarzani/orgchart/modules/tree/domain/ports"
	"github.com/gbarzani/orgchart/modules/tree/domain/types"
	"github.com/gbarzani/orgchart/pkg/apierr"
	"github.com/gbarzani/orgchart/pkg/nestedset"
)

func withRequestID(t *testing.T, fn func() (string, error)) {
	t.Helper()
	orig := newRequestID
	newRequestID = fn
	t.Cleanup(func() { newRequestID = orig })
}

func TestInsertLastChildMissingInput(t *testing.T) {
	svc := NewNodeWriteService(treeStoreStub{}, testRegistry(t))
	ctx := context.Background()

	if _, err := svc.InsertLastChild(ctx, InsertNodeRequest{ParentID: 0, Names: map[string]string{"English": "X", "Italian": "Y"}}); !apierr.IsMissingParameters(err) {
		t.Fatalf("expected MissingParameters for zero parent, got %v", err)
	}
	if _, err := svc.InsertLastChild(ctx, InsertNodeRequest{ParentID: 5}); !apierr.IsMissingParameters(err) {
		t.Fatalf("expected MissingParameters for nil names, got %v", err)
	}
}

func TestInsertLastChildMissingLanguageNames(t *testing.T) {
	svc := NewNodeWriteService(treeStoreStub{}, testRegistry(t))

	_, err := svc.InsertLastChild(context.Background(), InsertNodeRequest{
		ParentID: 5,
		Names:    map[string]string{"English": "Human Resources", "Italian": "   "},
	})
	if !apierr.IsMissingParameters(err) {
		t.Fatalf("expected MissingParameters, got %v", err)
	}
	if !strings.Contains(err.Error(), "Italian") {
		t.Fatalf("error should name the missing language: %v", err)
	}
}

func TestInsertLastChildNormalizesAndStores(t *testing.T) {
	var gotParent int64
	var gotNames map[string]string
	var gotRequestID string

	svc := NewNodeWriteService(treeStoreStub{
		insertLastChildFn: func(_ context.Context, parentID int64, names map[string]string, requestID string) (types.Node, error) {
			gotParent, gotNames, gotRequestID = parentID, names, requestID
			two := int64(5)
			return types.Node{
				ID:       13,
				ParentID: &two,
				Level:    2,
				Left:     24,
				Right:    25,
				Names:    names,
			}, nil
		},
	}, testRegistry(t))

	withRequestID(t, func() (string, error) { return "req-0001", nil })

	view, err := svc.InsertLastChild(context.Background(), InsertNodeRequest{
		ParentID: 5,
		// Lowercased language key and a decomposed accent: both get
		// canonicalized before the store sees them.
		Names:    map[string]string{"english": "Human Resources ", "Italian": "Qualità"},
		Language: "Italian",
	})
	if err != nil {
		t.Fatalf("InsertLastChild: %v", err)
	}

	if gotParent != 5 || gotRequestID != "req-0001" {
		t.Fatalf("store called with parent=%d requestID=%q", gotParent, gotRequestID)
	}
	if gotNames["English"] != "Human Resources" || gotNames["Italian"] != "Qualità" {
		t.Fatalf("store names = %v", gotNames)
	}
	if view.NodeID != 13 || view.Name != "Qualità" || view.ChildrenCount != 0 {
		t.Fatalf("view = %+v", view)
	}
}

func TestInsertLastChildKeepsCallerRequestID(t *testing.T) {
	var gotRequestID string
	svc := NewNodeWriteService(treeStoreStub{
		insertLastChildFn: func(_ context.Context, _ int64, names map[string]string, requestID string) (types.Node, error) {
			gotRequestID = requestID
			return types.Node{ID: 13, Left: 24, Right: 25, Names: names}, nil
		},
	}, testRegistry(t))

	_, err := svc.InsertLastChild(context.Background(), InsertNodeRequest{
		ParentID:  5,
		Names:     map[string]string{"English": "HR", "Italian": "Risorse Umane"},
		RequestID: "caller-supplied",
	})
	if err != nil {
		t.Fatalf("InsertLastChild: %v", err)
	}
	if gotRequestID != "caller-supplied" {
		t.Fatalf("requestID = %q, want caller-supplied", gotRequestID)
	}
}

func TestInsertLastChildStoreErrors(t *testing.T) {
	parentMissing := NewNodeWriteService(treeStoreStub{
		insertLastChildFn: func(context.Context, int64, map[string]string, string) (types.Node, error) {
			return types.Node{}, ports.ErrNodeNotFound
		},
	}, testRegistry(t))
	exhausted := NewNodeWriteService(treeStoreStub{
		insertLastChildFn: func(context.Context, int64, map[string]string, string) (types.Node, error) {
			return types.Node{}, nestedset.ErrBoundsExhausted
		},
	}, testRegistry(t))

	req := InsertNodeRequest{ParentID: 42, Names: map[string]string{"English": "X", "Italian": "Y"}}
	ctx := context.Background()

	if _, err := parentMissing.InsertLastChild(ctx, req); !apierr.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := exhausted.InsertLastChild(ctx, req); !apierr.IsResourceExhausted(err) {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
}
