// Package pg implementa el adapter PostgreSQL.
// Usa pgxpool directamente; cada usuario es una fila con el documento en JSONB.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/store"
)

const driverName = "postgres"

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

// postgresAdapter implementa store.Adapter para PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return driverName }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pg: missing DSN")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ensure table: %w", err)
	}

	return &pgConnection{pool: pool, users: &userRepo{pool: pool}}, nil
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS app_user (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// pgConnection representa una conexión activa a PostgreSQL.
type pgConnection struct {
	pool  *pgxpool.Pool
	users *userRepo
}

func (c *pgConnection) Name() string { return driverName }

func (c *pgConnection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *pgConnection) Close() error {
	c.pool.Close()
	return nil
}

func (c *pgConnection) Users() repository.UserRepository { return c.users }

// ─── UserRepository ───

type userRepo struct {
	pool *pgxpool.Pool
}

func (r *userRepo) List(ctx context.Context) ([]repository.User, error) {
	const query = `SELECT id, doc FROM app_user ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "list", err)
	}
	defer rows.Close()

	out := make([]repository.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, repository.WrapStoreError(driverName, "list", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.WrapStoreError(driverName, "list", err)
	}
	return out, nil
}

func (r *userRepo) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	const query = `INSERT INTO app_user (id, doc) VALUES ($1, $2::jsonb) RETURNING id, doc`

	doc, err := encode(fields)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}
	u, err := scanUser(r.pool.QueryRow(ctx, query, uuid.NewString(), doc))
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}
	return u, nil
}

func (r *userRepo) UpdateByID(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	// || reemplaza las claves presentes en el patch y conserva el resto
	const query = `UPDATE app_user SET doc = doc || $2::jsonb WHERE id = $1 RETURNING id, doc`

	doc, err := encode(patch)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "update", err)
	}
	u, err := scanUser(r.pool.QueryRow(ctx, query, id, doc))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "update", err)
	}
	return u, nil
}

func (r *userRepo) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	const query = `DELETE FROM app_user WHERE id = $1 RETURNING id, doc`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "delete", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*repository.User, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &repository.User{ID: id, Fields: fields}, nil
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
