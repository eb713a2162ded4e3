package types

import (
	"time"

	"github.com/gbarzani/orgchart/pkg/nestedset"
)

// Node is one entry of the org chart. Bounds place it in the nested set
// encoding; Names maps language display names onto translations. A node is
// immutable once inserted, except for the bound shifts inflicted by later
// insertions elsewhere in the tree.
type Node struct {
	ID       int64
	ParentID *int64
	Level    int
	Left     int64
	Right    int64
	Names    map[string]string
}

func (n Node) Bounds() nestedset.Bounds {
	return nestedset.Bounds{Left: n.Left, Right: n.Right}
}

// ChildrenCount is the node's total descendant count at any depth. The
// external contract has always called this children_count even though it
// is not the direct-child count.
func (n Node) ChildrenCount() int64 {
	return n.Bounds().DescendantCount()
}

// NameIn returns the node's name in the given language, falling back to
// the fallback language and finally to the empty string.
func (n Node) NameIn(language, fallback string) string {
	if name, ok := n.Names[language]; ok {
		return name
	}
	return n.Names[fallback]
}

// NodeView is the projection returned to callers.
type NodeView struct {
	NodeID        int64  `json:"node_id"`
	Name          string `json:"name"`
	ChildrenCount int64  `json:"children_count"`
}

// InsertRecord is one row of the insert journal: which node an insert
// request created, and where.
type InsertRecord struct {
	RequestID  string
	NodeID     int64
	ParentID   int64
	InsertedAt time.Time
}
