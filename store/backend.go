package store

import (
	"context"

	"github.com/Yulian302/taskflow-gateway/health"
)

// Backend is one configured persistence driver serving both users and tasks.
type Backend interface {
	Users() UserStore
	Tasks() TaskStore
	// Migrate creates tables or applies the schema. It is idempotent.
	Migrate(ctx context.Context) error
	Shutdown(ctx context.Context) error

	health.ReadinessCheck
}

var (
	_ Backend = (*DynamoStore)(nil)
	_ Backend = (*SQLiteStore)(nil)
	_ Backend = (*PostgresStore)(nil)
)

type DynamoStore struct {
	users *DynamoDbUserStore
	tasks *DynamoDbTaskStore
}

func NewDynamoStore(client DynamoAPI, usersTable, tasksTable string) *DynamoStore {
	return &DynamoStore{
		users: NewUserStore(client, usersTable),
		tasks: NewTaskStore(client, tasksTable),
	}
}

func (s *DynamoStore) Users() UserStore {
	return s.users
}

func (s *DynamoStore) Tasks() TaskStore {
	return s.tasks
}

func (s *DynamoStore) Migrate(ctx context.Context) error {
	return CreateDynamoTables(ctx, s.users.Client, s.users.TableName, s.tasks.TableName)
}

func (s *DynamoStore) IsReady(ctx context.Context) error {
	if err := s.users.IsReady(ctx); err != nil {
		return err
	}
	return s.tasks.IsReady(ctx)
}

func (s *DynamoStore) Name() string {
	return "Store[dynamodb]"
}

func (s *DynamoStore) Shutdown(ctx context.Context) error {
	return nil
}
