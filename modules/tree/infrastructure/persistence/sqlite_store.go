package persistence

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gbarzani/orgchart/modules/tree/domain/ports"
	"github.com/gbarzani/orgchart/modules/tree/domain/types"
	"github.com/gbarzani/orgchart/pkg/nestedset"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLiteStore implements ports.TreeStore on a single SQLite file (or
// :memory:). SQLite transactions are serializable, and the pool is capped
// at one connection so writers never trip over SQLITE_BUSY.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	return err
}

const sqliteNodeColumns = `n.id, n.parent_id, n.level, n.lft, n.rgt, m.language, m.node_name`

// scanNodes folds joined node/name rows, ordered by lft, into nodes.
func scanNodes(rows *sql.Rows) ([]types.Node, error) {
	var out []types.Node
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id       int64
			parent   sql.NullInt64
			level    int
			lft, rgt int64
			language sql.NullString
			name     sql.NullString
		)
		if err := rows.Scan(&id, &parent, &level, &lft, &rgt, &language, &name); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			n := types.Node{ID: id, Level: level, Left: lft, Right: rgt, Names: make(map[string]string)}
			if parent.Valid {
				p := parent.Int64
				n.ParentID = &p
			}
			out = append(out, n)
			i = len(out) - 1
			index[id] = i
		}
		if language.Valid {
			out[i].Names[language.String] = name.String
		}
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetNode(ctx context.Context, id int64) (types.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+sqliteNodeColumns+`
FROM node_tree n LEFT JOIN node_tree_names m ON m.node_id = n.id
WHERE n.id = ?
`, id)
	if err != nil {
		return types.Node{}, err
	}
	defer rows.Close()

	nodes, err := scanNodes(rows)
	if err != nil {
		return types.Node{}, err
	}
	if len(nodes) == 0 {
		return types.Node{}, ports.ErrNodeNotFound
	}
	return nodes[0], nil
}

func (s *SQLiteStore) ListNodes(ctx context.Context, limit, offset int) ([]types.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+sqliteNodeColumns+`
FROM (SELECT * FROM node_tree ORDER BY lft ASC LIMIT ? OFFSET ?) n
LEFT JOIN node_tree_names m ON m.node_id = n.id
ORDER BY n.lft ASC
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNodes(rows)
}

func (s *SQLiteStore) ListSubtree(ctx context.Context, left, right int64) ([]types.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+sqliteNodeColumns+`
FROM node_tree n LEFT JOIN node_tree_names m ON m.node_id = n.id
WHERE n.lft > ? AND n.rgt < ?
ORDER BY n.lft ASC
`, left, right)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNodes(rows)
}

func (s *SQLiteStore) InsertLastChild(ctx context.Context, parentID int64, names map[string]string, requestID string) (types.Node, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Node{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var parentLevel int
	var parentRight int64
	err = tx.QueryRowContext(ctx, `SELECT level, rgt FROM node_tree WHERE id = ?`, parentID).
		Scan(&parentLevel, &parentRight)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Node{}, ports.ErrNodeNotFound
		}
		return types.Node{}, err
	}

	var maxBound int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(rgt), 0) FROM node_tree`).Scan(&maxBound); err != nil {
		return types.Node{}, err
	}

	gap, err := nestedset.ReserveGap(parentRight, maxBound)
	if err != nil {
		return types.Node{}, err
	}

	// Tree-wide renumbering: every bound at or past the insertion point
	// moves up, which widens every ancestor and pushes every branch to
	// the right of the parent's subtree.
	if _, err := tx.ExecContext(ctx, `UPDATE node_tree SET lft = lft + 2 WHERE lft >= ?`, gap.Left); err != nil {
		return types.Node{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE node_tree SET rgt = rgt + 2 WHERE rgt >= ?`, gap.Left); err != nil {
		return types.Node{}, err
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO node_tree (parent_id, level, lft, rgt) VALUES (?, ?, ?, ?)
`, parentID, parentLevel+1, gap.Left, gap.Right)
	if err != nil {
		return types.Node{}, err
	}
	nodeID, err := res.LastInsertId()
	if err != nil {
		return types.Node{}, err
	}

	for language, name := range names {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO node_tree_names (node_id, language, node_name) VALUES (?, ?, ?)
`, nodeID, language, name); err != nil {
			return types.Node{}, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO node_insert_log (request_uuid, node_id, parent_id, inserted_at) VALUES (?, ?, ?, ?)
`, requestID, nodeID, parentID, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return types.Node{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Node{}, err
	}

	parent := parentID
	node := types.Node{
		ID:       nodeID,
		ParentID: &parent,
		Level:    parentLevel + 1,
		Left:     gap.Left,
		Right:    gap.Right,
		Names:    names,
	}
	return node, nil
}

func (s *SQLiteStore) ListInsertions(ctx context.Context, limit int) ([]types.InsertRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT request_uuid, node_id, parent_id, inserted_at
FROM node_insert_log
ORDER BY rowid DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.InsertRecord
	for rows.Next() {
		var rec types.InsertRecord
		var at string
		if err := rows.Scan(&rec.RequestID, &rec.NodeID, &rec.ParentID, &at); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse inserted_at %q: %w", at, err)
		}
		rec.InsertedAt = t
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountNodes(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM node_tree`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Seed(ctx context.Context, nodes []types.Node) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM node_tree`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return fmt.Errorf("seed: store already holds %d nodes", existing)
	}

	for _, n := range nodes {
		var parent any
		if n.ParentID != nil {
			parent = *n.ParentID
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO node_tree (id, parent_id, level, lft, rgt) VALUES (?, ?, ?, ?, ?)
`, n.ID, parent, n.Level, n.Left, n.Right); err != nil {
			return err
		}
		for language, name := range n.Names {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO node_tree_names (node_id, language, node_name) VALUES (?, ?, ?)
`, n.ID, language, name); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

var _ ports.TreeStore = (*SQLiteStore)(nil)
