package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamoTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of *dynamodb.Client the stores use.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

func isConditionalCheckFailed(err error) bool {
	var ccf *dynamoTypes.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func describeTable(ctx context.Context, client DynamoAPI, table string) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(table),
	})
	return err
}

// CreateDynamoTables creates the users and tasks tables if missing.
// Users are keyed by email; tasks by (owner_email, id).
func CreateDynamoTables(ctx context.Context, client DynamoAPI, usersTable, tasksTable string) error {
	tables := []*dynamodb.CreateTableInput{
		{
			TableName: aws.String(usersTable),
			AttributeDefinitions: []dynamoTypes.AttributeDefinition{
				{AttributeName: aws.String("email"), AttributeType: dynamoTypes.ScalarAttributeTypeS},
			},
			KeySchema: []dynamoTypes.KeySchemaElement{
				{AttributeName: aws.String("email"), KeyType: dynamoTypes.KeyTypeHash},
			},
			BillingMode: dynamoTypes.BillingModePayPerRequest,
		},
		{
			TableName: aws.String(tasksTable),
			AttributeDefinitions: []dynamoTypes.AttributeDefinition{
				{AttributeName: aws.String("owner_email"), AttributeType: dynamoTypes.ScalarAttributeTypeS},
				{AttributeName: aws.String("id"), AttributeType: dynamoTypes.ScalarAttributeTypeS},
			},
			KeySchema: []dynamoTypes.KeySchemaElement{
				{AttributeName: aws.String("owner_email"), KeyType: dynamoTypes.KeyTypeHash},
				{AttributeName: aws.String("id"), KeyType: dynamoTypes.KeyTypeRange},
			},
			BillingMode: dynamoTypes.BillingModePayPerRequest,
		},
	}

	for _, in := range tables {
		_, err := client.CreateTable(ctx, in)
		if err != nil {
			var inUse *dynamoTypes.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return fmt.Errorf("create table %s: %w", aws.ToString(in.TableName), err)
		}
	}
	return nil
}
