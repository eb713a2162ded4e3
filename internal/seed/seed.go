// Package seed holds the initial organizational chart fixture: a Company
// root with its departments, named in English and Italian.
package seed

import (
	"context"

	"github.com/gbarzani/orgchart/modules/tree/domain/ports"
	"github.com/gbarzani/orgchart/modules/tree/domain/types"
	"github.com/gbarzani/orgchart/pkg/nestedset"
)

func ptr(v int64) *int64 { return &v }

// Tree returns the fixture nodes, pre-order. Bounds and ids are fixed so
// query results are reproducible across stores.
func Tree() []types.Node {
	return []types.Node{
		{ID: 5, Level: 1, Left: 1, Right: 24, Names: map[string]string{"English": "Company", "Italian": "Azienda"}},
		{ID: 1, ParentID: ptr(5), Level: 2, Left: 2, Right: 3, Names: map[string]string{"English": "Marketing", "Italian": "Marketing"}},
		{ID: 2, ParentID: ptr(5), Level: 2, Left: 4, Right: 5, Names: map[string]string{"English": "Helpdesk", "Italian": "Supporto tecnico"}},
		{ID: 3, ParentID: ptr(5), Level: 2, Left: 6, Right: 7, Names: map[string]string{"English": "Managers", "Italian": "Managers"}},
		{ID: 4, ParentID: ptr(5), Level: 2, Left: 8, Right: 9, Names: map[string]string{"English": "Customer Account", "Italian": "Assistenza Cliente"}},
		{ID: 6, ParentID: ptr(5), Level: 2, Left: 10, Right: 11, Names: map[string]string{"English": "Accounting", "Italian": "Amministrazione"}},
		{ID: 7, ParentID: ptr(5), Level: 2, Left: 12, Right: 19, Names: map[string]string{"English": "Sales", "Italian": "Supporto Vendite"}},
		{ID: 11, ParentID: ptr(7), Level: 3, Left: 13, Right: 14, Names: map[string]string{"English": "North America", "Italian": "Nord America"}},
		{ID: 8, ParentID: ptr(7), Level: 3, Left: 15, Right: 16, Names: map[string]string{"English": "Italy", "Italian": "Italia"}},
		{ID: 9, ParentID: ptr(7), Level: 3, Left: 17, Right: 18, Names: map[string]string{"English": "Europe", "Italian": "Europa"}},
		{ID: 10, ParentID: ptr(5), Level: 2, Left: 20, Right: 21, Names: map[string]string{"English": "Developers", "Italian": "Sviluppatori"}},
		{ID: 12, ParentID: ptr(5), Level: 2, Left: 22, Right: 23, Names: map[string]string{"English": "Quality Assurance", "Italian": "Controllo Qualità"}},
	}
}

// Load validates the fixture's bounds and loads it into an empty store.
func Load(ctx context.Context, store ports.TreeStore) error {
	nodes := Tree()
	bounds := make([]nestedset.Bounds, len(nodes))
	for i, n := range nodes {
		bounds[i] = n.Bounds()
	}
	if err := nestedset.Validate(bounds); err != nil {
		return err
	}
	return store.Seed(ctx, nodes)
}
