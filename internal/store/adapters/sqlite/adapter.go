// Package sqlite implementa el adapter SQLite (embebido).
// Cada usuario es una fila con el documento JSON en una columna TEXT.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/store"
)

const driverName = "sqlite"

func init() {
	store.RegisterAdapter(&sqliteAdapter{})
}

type sqliteAdapter struct{}

func (a *sqliteAdapter) Name() string { return driverName }

// Connect abre (o crea) la base y la tabla users.
// cfg.DSN es un path o un DSN "file:...". Default: users.db
func (a *sqliteAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = "users.db"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// Un solo writer: evita "database is locked" con transacciones concurrentes.
	db.SetMaxOpenConns(1)

	// journal_mode puede no estar soportado (ej: in-memory). Se ignora el error.
	_, _ = db.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ensure table: %w", err)
	}

	return &sqliteConnection{db: db, users: &userRepo{db: db}}, nil
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
)`

type sqliteConnection struct {
	db    *sql.DB
	users *userRepo
}

func (c *sqliteConnection) Name() string                     { return driverName }
func (c *sqliteConnection) Ping(ctx context.Context) error   { return c.db.PingContext(ctx) }
func (c *sqliteConnection) Close() error                     { return c.db.Close() }
func (c *sqliteConnection) Users() repository.UserRepository { return c.users }

type userRepo struct {
	db *sql.DB
}

func (r *userRepo) List(ctx context.Context) ([]repository.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, doc FROM users ORDER BY rowid`)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "list", err)
	}
	defer rows.Close()

	out := make([]repository.User, 0)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, repository.WrapStoreError(driverName, "list", err)
		}
		fields, err := decode(doc)
		if err != nil {
			return nil, repository.WrapStoreError(driverName, "list", err)
		}
		out = append(out, repository.User{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, repository.WrapStoreError(driverName, "list", err)
	}
	return out, nil
}

func (r *userRepo) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	doc, err := encode(fields)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, doc, created_at) VALUES (?, ?, ?)`,
		id, doc, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}

	stored, err := decode(doc)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}
	return &repository.User{ID: id, Fields: stored}, nil
}

func (r *userRepo) UpdateByID(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	var out *repository.User
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		current, err := selectDoc(ctx, tx, id)
		if err != nil {
			return err
		}
		p, err := encode(patch)
		if err != nil {
			return err
		}
		pm, err := decode(p)
		if err != nil {
			return err
		}
		merged := repository.Merge(current, repository.UserPatch(pm))
		doc, err := encode(merged)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET doc = ? WHERE id = ?`, doc, id); err != nil {
			return err
		}
		out = &repository.User{ID: id, Fields: merged}
		return nil
	})
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "update", err)
	}
	return out, nil
}

func (r *userRepo) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	var out *repository.User
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		current, err := selectDoc(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
			return err
		}
		out = &repository.User{ID: id, Fields: current}
		return nil
	})
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "delete", err)
	}
	return out, nil
}

func (r *userRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func selectDoc(ctx context.Context, tx *sql.Tx, id string) (map[string]any, error) {
	var doc string
	err := tx.QueryRowContext(ctx, `SELECT doc FROM users WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(doc)
}

func encode[M ~map[string]any](m M) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

func decode(doc string) (map[string]any, error) {
	out := map[string]any{}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}
