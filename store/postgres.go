package store

import (
	"context"
	"errors"
	"fmt"

	authtypes "github.com/Yulian302/taskflow-gateway/auth/types"
	apperror "github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/tasks/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	username   TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	owner_email TEXT NOT NULL,
	title       TEXT NOT NULL,
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_owner_created ON tasks (owner_email, created_at DESC);
`

// PostgresStore keeps users and tasks in Postgres through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
	}
}

// OpenPostgres connects to url and applies the schema.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewPostgresStore(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsReady(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Name() string {
	return "Store[postgres]"
}

func (s *PostgresStore) Shutdown(ctx context.Context) error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Users() UserStore {
	return pgUsers{s}
}

func (s *PostgresStore) Tasks() TaskStore {
	return pgTasks{s}
}

type pgUsers struct{ *PostgresStore }

func (s pgUsers) GetByEmail(ctx context.Context, email string) (*authtypes.User, error) {
	q := `SELECT id, email, username, first_name, last_name, created_at FROM users WHERE email = $1`

	u := &authtypes.User{}
	err := s.pool.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (s pgUsers) Create(ctx context.Context, user authtypes.User) error {
	q := `INSERT INTO users (id, email, username, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING`

	tag, err := s.pool.Exec(ctx, q, user.ID, user.Email, user.Username, user.FirstName, user.LastName, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrUserAlreadyExists
	}
	return nil
}

type pgTasks struct{ *PostgresStore }

const pgTaskColumns = `id, owner_email, title, completed, created_at, updated_at`

func scanPgTask(row pgx.Row) (*types.Task, error) {
	t := &types.Task{}
	if err := row.Scan(&t.ID, &t.OwnerEmail, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func (s pgTasks) List(ctx context.Context, owner string) ([]*types.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgTaskColumns+` FROM tasks WHERE owner_email = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*types.Task{}
	for rows.Next() {
		t, err := scanPgTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s pgTasks) Create(ctx context.Context, task types.Task) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (`+pgTaskColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.OwnerEmail, task.Title, task.Completed, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("insert task: duplicate id %s", task.ID)
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s pgTasks) Get(ctx context.Context, owner, id string) (*types.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgTaskColumns+` FROM tasks WHERE owner_email = $1 AND id = $2`, owner, id)

	t, err := scanPgTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s pgTasks) Update(ctx context.Context, task types.Task) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET title = $1, completed = $2, updated_at = $3 WHERE owner_email = $4 AND id = $5`,
		task.Title, task.Completed, task.UpdatedAt, task.OwnerEmail, task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrTaskNotFound
	}
	return nil
}

func (s pgTasks) Delete(ctx context.Context, owner, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE owner_email = $1 AND id = $2`, owner, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrTaskNotFound
	}
	return nil
}
