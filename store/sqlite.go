package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	authtypes "github.com/Yulian302/taskflow-gateway/auth/types"
	apperror "github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/tasks/types"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	username   TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	owner_email TEXT NOT NULL,
	title       TEXT NOT NULL,
	completed   INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_owner_created ON tasks (owner_email, created_at DESC);
`

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// SQLiteStore keeps users and tasks in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) IsReady(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Name() string {
	return "Store[sqlite]"
}

func (s *SQLiteStore) Shutdown(ctx context.Context) error {
	return s.db.Close()
}

// Users returns the user view of the store.
func (s *SQLiteStore) Users() UserStore {
	return sqliteUsers{s}
}

// Tasks returns the task view of the store.
func (s *SQLiteStore) Tasks() TaskStore {
	return sqliteTasks{s}
}

type sqliteUsers struct{ *SQLiteStore }

func (s sqliteUsers) GetByEmail(ctx context.Context, email string) (*authtypes.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, username, first_name, last_name, created_at FROM users WHERE email = ?`, email)

	var (
		u         authtypes.User
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

func (s sqliteUsers) Create(ctx context.Context, user authtypes.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, username, first_name, last_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		user.ID, user.Email, user.Username, user.FirstName, user.LastName, toMillis(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return apperror.ErrUserAlreadyExists
	}
	return nil
}

type sqliteTasks struct{ *SQLiteStore }

const sqliteTaskColumns = `id, owner_email, title, completed, created_at, updated_at`

func scanSQLiteTask(scan func(dest ...any) error) (*types.Task, error) {
	var (
		t                    types.Task
		completed            int
		createdAt, updatedAt int64
	)
	if err := scan(&t.ID, &t.OwnerEmail, &t.Title, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Completed = completed != 0
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s sqliteTasks) List(ctx context.Context, owner string) ([]*types.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteTaskColumns+` FROM tasks WHERE owner_email = ? ORDER BY created_at DESC, rowid DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*types.Task{}
	for rows.Next() {
		t, err := scanSQLiteTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s sqliteTasks) Create(ctx context.Context, task types.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+sqliteTaskColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, task.OwnerEmail, task.Title, boolToInt(task.Completed), toMillis(task.CreatedAt), toMillis(task.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s sqliteTasks) Get(ctx context.Context, owner, id string) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteTaskColumns+` FROM tasks WHERE owner_email = ? AND id = ?`, owner, id)

	t, err := scanSQLiteTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s sqliteTasks) Update(ctx context.Context, task types.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, completed = ?, updated_at = ? WHERE owner_email = ? AND id = ?`,
		task.Title, boolToInt(task.Completed), toMillis(task.UpdatedAt), task.OwnerEmail, task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectOneRow(res, apperror.ErrTaskNotFound)
}

func (s sqliteTasks) Delete(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_email = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOneRow(res, apperror.ErrTaskNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
