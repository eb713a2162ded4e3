package ports

import (
	"context"
	"errors"

	"github.com/gbarzani/orgchart/modules/tree/domain/types"
)

var ErrNodeNotFound = errors.New("node not found")

// TreeStore is the durable collection of nodes. Reads return nodes ordered
// by left bound ascending, which under the nested set encoding is the
// stable pre-order traversal. InsertLastChild owns the all-or-nothing
// boundary around the bound shift and the leaf insert: a partially shifted
// tree must never be visible to any reader or survive a failure.
type TreeStore interface {
	// GetNode returns the node with the given id, or ErrNodeNotFound.
	GetNode(ctx context.Context, id int64) (types.Node, error)

	// ListNodes returns up to limit nodes ordered by left bound,
	// skipping the first offset.
	ListNodes(ctx context.Context, limit, offset int) ([]types.Node, error)

	// ListSubtree returns the nodes whose bounds nest strictly inside
	// (left, right), ordered by left bound.
	ListSubtree(ctx context.Context, left, right int64) ([]types.Node, error)

	// InsertLastChild appends a new leaf as the last child of parentID
	// inside one serializable transaction: it widens the parent's range
	// by shifting every bound >= parent.right up by two, inserts the
	// leaf into the freed range with the given names, and journals the
	// request. Returns the created node.
	InsertLastChild(ctx context.Context, parentID int64, names map[string]string, requestID string) (types.Node, error)

	// ListInsertions returns the most recent insert journal entries,
	// newest first.
	ListInsertions(ctx context.Context, limit int) ([]types.InsertRecord, error)

	// CountNodes returns the total number of nodes.
	CountNodes(ctx context.Context) (int64, error)

	// Seed loads a pre-built tree, with explicit ids and bounds, into an
	// empty store in one transaction. It fails when the store already
	// holds nodes. Regular growth goes through InsertLastChild; Seed
	// exists for the initial fixture.
	Seed(ctx context.Context, nodes []types.Node) error
}
