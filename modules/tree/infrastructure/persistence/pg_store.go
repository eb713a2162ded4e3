package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gbarzani/orgchart/modules/tree/domain/ports"
	"github.com/gbarzani/orgchart/modules/tree/domain/types"
	"github.com/gbarzani/orgchart/pkg/nestedset"
)

type pgBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// PGStore implements ports.TreeStore on PostgreSQL. Reads run in plain
// transactions; the shift+insert write runs serializable so a partially
// shifted tree is never visible to concurrent callers.
type PGStore struct {
	pool pgBeginner
}

func NewPGStore(pool pgBeginner) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := tx.Exec(ctx, `
CREATE TABLE IF NOT EXISTS node_tree (
  id        BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
  parent_id BIGINT REFERENCES node_tree(id),
  level     INT NOT NULL,
  lft       INT NOT NULL CHECK (lft > 0),
  rgt       INT NOT NULL CHECK (rgt > lft)
);
CREATE INDEX IF NOT EXISTS node_tree_lft_ix ON node_tree (lft);
CREATE INDEX IF NOT EXISTS node_tree_rgt_ix ON node_tree (rgt);

CREATE TABLE IF NOT EXISTS node_tree_names (
  node_id   BIGINT NOT NULL REFERENCES node_tree(id) ON DELETE CASCADE,
  language  TEXT NOT NULL,
  node_name TEXT NOT NULL,
  PRIMARY KEY (node_id, language)
);

CREATE TABLE IF NOT EXISTS node_insert_log (
  request_uuid TEXT PRIMARY KEY,
  node_id      BIGINT NOT NULL,
  parent_id    BIGINT NOT NULL,
  inserted_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const pgNodeColumns = `n.id, n.parent_id, n.level, n.lft, n.rgt, m.language, m.node_name`

func scanPGNodes(rows pgx.Rows) ([]types.Node, error) {
	var out []types.Node
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id       int64
			parent   *int64
			level    int
			lft, rgt int64
			language *string
			name     *string
		)
		if err := rows.Scan(&id, &parent, &level, &lft, &rgt, &language, &name); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			out = append(out, types.Node{ID: id, ParentID: parent, Level: level, Left: lft, Right: rgt, Names: make(map[string]string)})
			i = len(out) - 1
			index[id] = i
		}
		if language != nil && name != nil {
			out[i].Names[*language] = *name
		}
	}
	return out, rows.Err()
}

func (s *PGStore) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGStore) GetNode(ctx context.Context, id int64) (types.Node, error) {
	var node types.Node
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
SELECT `+pgNodeColumns+`
FROM node_tree n LEFT JOIN node_tree_names m ON m.node_id = n.id
WHERE n.id = $1
`, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		nodes, err := scanPGNodes(rows)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			return ports.ErrNodeNotFound
		}
		node = nodes[0]
		return nil
	})
	return node, err
}

func (s *PGStore) ListNodes(ctx context.Context, limit, offset int) ([]types.Node, error) {
	var out []types.Node
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
SELECT `+pgNodeColumns+`
FROM (SELECT * FROM node_tree ORDER BY lft ASC LIMIT $1 OFFSET $2) n
LEFT JOIN node_tree_names m ON m.node_id = n.id
ORDER BY n.lft ASC
`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanPGNodes(rows)
		return err
	})
	return out, err
}

func (s *PGStore) ListSubtree(ctx context.Context, left, right int64) ([]types.Node, error) {
	var out []types.Node
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
SELECT `+pgNodeColumns+`
FROM node_tree n LEFT JOIN node_tree_names m ON m.node_id = n.id
WHERE n.lft > $1 AND n.rgt < $2
ORDER BY n.lft ASC
`, left, right)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanPGNodes(rows)
		return err
	})
	return out, err
}

func (s *PGStore) InsertLastChild(ctx context.Context, parentID int64, names map[string]string, requestID string) (types.Node, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return types.Node{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	var parentLevel int
	var parentRight int64
	err = tx.QueryRow(ctx, `SELECT level, rgt FROM node_tree WHERE id = $1 FOR UPDATE`, parentID).
		Scan(&parentLevel, &parentRight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Node{}, ports.ErrNodeNotFound
		}
		return types.Node{}, err
	}

	var maxBound int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(rgt), 0) FROM node_tree`).Scan(&maxBound); err != nil {
		return types.Node{}, err
	}

	gap, err := nestedset.ReserveGap(parentRight, maxBound)
	if err != nil {
		return types.Node{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE node_tree SET lft = lft + 2 WHERE lft >= $1`, gap.Left); err != nil {
		return types.Node{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE node_tree SET rgt = rgt + 2 WHERE rgt >= $1`, gap.Left); err != nil {
		return types.Node{}, err
	}

	var nodeID int64
	if err := tx.QueryRow(ctx, `
INSERT INTO node_tree (parent_id, level, lft, rgt) VALUES ($1, $2, $3, $4)
RETURNING id
`, parentID, parentLevel+1, gap.Left, gap.Right).Scan(&nodeID); err != nil {
		return types.Node{}, err
	}

	for language, name := range names {
		if _, err := tx.Exec(ctx, `
INSERT INTO node_tree_names (node_id, language, node_name) VALUES ($1, $2, $3)
`, nodeID, language, name); err != nil {
			return types.Node{}, err
		}
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO node_insert_log (request_uuid, node_id, parent_id) VALUES ($1, $2, $3)
`, requestID, nodeID, parentID); err != nil {
		return types.Node{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Node{}, err
	}

	parent := parentID
	return types.Node{
		ID:       nodeID,
		ParentID: &parent,
		Level:    parentLevel + 1,
		Left:     gap.Left,
		Right:    gap.Right,
		Names:    names,
	}, nil
}

func (s *PGStore) ListInsertions(ctx context.Context, limit int) ([]types.InsertRecord, error) {
	var out []types.InsertRecord
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
SELECT request_uuid, node_id, parent_id, inserted_at
FROM node_insert_log
ORDER BY inserted_at DESC
LIMIT $1
`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rec types.InsertRecord
			if err := rows.Scan(&rec.RequestID, &rec.NodeID, &rec.ParentID, &rec.InsertedAt); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	return out, err
}

func (s *PGStore) CountNodes(ctx context.Context) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT COUNT(*) FROM node_tree`).Scan(&n)
	})
	return n, err
}

func (s *PGStore) Seed(ctx context.Context, nodes []types.Node) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var existing int64
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM node_tree`).Scan(&existing); err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("seed: store already holds %d nodes", existing)
		}

		for _, n := range nodes {
			if _, err := tx.Exec(ctx, `
INSERT INTO node_tree (id, parent_id, level, lft, rgt) VALUES ($1, $2, $3, $4, $5)
`, n.ID, n.ParentID, n.Level, n.Left, n.Right); err != nil {
				return err
			}
			for language, name := range n.Names {
				if _, err := tx.Exec(ctx, `
INSERT INTO node_tree_names (node_id, language, node_name) VALUES ($1, $2, $3)
`, n.ID, language, name); err != nil {
					return err
				}
			}
		}

		// Explicit ids bypass the identity sequence; realign it.
		_, err := tx.Exec(ctx, `
SELECT setval(pg_get_serial_sequence('node_tree', 'id'), (SELECT MAX(id) FROM node_tree))
`)
		return err
	})
}

var _ ports.TreeStore = (*PGStore)(nil)
