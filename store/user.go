package store

import (
	"context"
	"fmt"

	"github.com/Yulian302/taskflow-gateway/auth/types"
	apperror "github.com/Yulian302/taskflow-gateway/errors"
	"github.com/Yulian302/taskflow-gateway/health"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamoTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	// Create inserts user and fails with ErrUserAlreadyExists when the
	// email is taken.
	Create(ctx context.Context, user types.User) error

	health.ReadinessCheck
}

// GetOrCreate inserts user unless its email already exists and returns the
// stored record. A lost insert race re-reads the winner instead of failing,
// and an existing record is returned untouched.
func GetOrCreate(ctx context.Context, s UserStore, user types.User) (*types.User, bool, error) {
	existing, err := s.GetByEmail(ctx, user.Email)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	err = s.Create(ctx, user)
	if err == nil {
		return &user, true, nil
	}
	if !isAlreadyExists(err) {
		return nil, false, err
	}

	existing, err = s.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, false, fmt.Errorf("re-read after conflict: %w", err)
	}
	return existing, false, nil
}

type DynamoDbUserStore struct {
	Client    DynamoAPI
	TableName string
}

func NewUserStore(dbClient DynamoAPI, tableName string) *DynamoDbUserStore {
	return &DynamoDbUserStore{
		Client:    dbClient,
		TableName: tableName,
	}
}

func (s *DynamoDbUserStore) IsReady(ctx context.Context) error {
	return describeTable(ctx, s.Client, s.TableName)
}

func (s *DynamoDbUserStore) Name() string {
	return "UserStore[dynamodb:" + s.TableName + "]"
}

func (s *DynamoDbUserStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	res, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]dynamoTypes.AttributeValue{
			"email": &dynamoTypes.AttributeValueMemberS{Value: email},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if res.Item == nil {
		return nil, apperror.ErrUserNotFound
	}

	var user types.User
	if err := attributevalue.UnmarshalMap(res.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}

	return &user, nil
}

func (s *DynamoDbUserStore) Create(ctx context.Context, user types.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperror.ErrUserAlreadyExists
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}
