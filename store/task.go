package store

import (
	"context"
	"fmt"
	"sort"

	apperror "github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/health"
	"github.com/Yulian302/taskflow-gateway/tasks/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamoTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TaskStore persists tasks. Every method is scoped by owner: a task that
// belongs to someone else is reported as ErrTaskNotFound.
type TaskStore interface {
	List(ctx context.Context, owner string) ([]*types.Task, error)
	Create(ctx context.Context, task types.Task) error
	Get(ctx context.Context, owner, id string) (*types.Task, error)
	Update(ctx context.Context, task types.Task) error
	Delete(ctx context.Context, owner, id string) error

	health.ReadinessCheck
}

// sortNewestFirst orders tasks by creation time, newest first.
func sortNewestFirst(tasks []*types.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

type DynamoDbTaskStore struct {
	Client    DynamoAPI
	TableName string
}

func NewTaskStore(dbClient DynamoAPI, tableName string) *DynamoDbTaskStore {
	return &DynamoDbTaskStore{
		Client:    dbClient,
		TableName: tableName,
	}
}

func (s *DynamoDbTaskStore) IsReady(ctx context.Context) error {
	return describeTable(ctx, s.Client, s.TableName)
}

func (s *DynamoDbTaskStore) Name() string {
	return "TaskStore[dynamodb:" + s.TableName + "]"
}

func taskKey(owner, id string) map[string]dynamoTypes.AttributeValue {
	return map[string]dynamoTypes.AttributeValue{
		"owner_email": &dynamoTypes.AttributeValueMemberS{Value: owner},
		"id":          &dynamoTypes.AttributeValueMemberS{Value: id},
	}
}

func (s *DynamoDbTaskStore) List(ctx context.Context, owner string) ([]*types.Task, error) {
	var (
		tasks []*types.Task
		start map[string]dynamoTypes.AttributeValue
	)

	for {
		out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.TableName),
			KeyConditionExpression: aws.String("owner_email = :owner"),
			ExpressionAttributeValues: map[string]dynamoTypes.AttributeValue{
				":owner": &dynamoTypes.AttributeValueMemberS{Value: owner},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("query tasks: %w", err)
		}

		var page []*types.Task
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal tasks: %w", err)
		}
		tasks = append(tasks, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}

	sortNewestFirst(tasks)
	return tasks, nil
}

func (s *DynamoDbTaskStore) Create(ctx context.Context, task types.Task) error {
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

func (s *DynamoDbTaskStore) Get(ctx context.Context, owner, id string) (*types.Task, error) {
	res, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.TableName),
		Key:            taskKey(owner, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if res.Item == nil {
		return nil, apperror.ErrTaskNotFound
	}

	var task types.Task
	if err := attributevalue.UnmarshalMap(res.Item, &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	return &task, nil
}

func (s *DynamoDbTaskStore) Update(ctx context.Context, task types.Task) error {
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperror.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *DynamoDbTaskStore) Delete(ctx context.Context, owner, id string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.TableName),
		Key:                 taskKey(owner, id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperror.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
