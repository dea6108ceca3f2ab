package profilestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mrowtown/cali-votes/internal/config"
	"github.com/mrowtown/cali-votes/internal/domain"
)

// profileItem is one stored record. PK: profile_id, SK: record_type.
// ExpiresAt is a Unix timestamp used as the DynamoDB TTL so abandoned
// profiles age out on their own.
type profileItem struct {
	ProfileID  string `dynamodbav:"profile_id"`
	RecordType string `dynamodbav:"record_type"`
	Payload    []byte `dynamodbav:"payload"`
	UpdatedAt  string `dynamodbav:"updated_at"`
	ExpiresAt  int64  `dynamodbav:"expires_at"`
}

// DynamoKV is the durable KV backing for production deployments.
type DynamoKV struct {
	client    *dynamodb.Client
	tableName string
	ttl       time.Duration
}

// NewDynamoClient creates a DynamoDB client. When cfg.AWSEndpointURL is set
// (LocalStack), it overrides the endpoint so all traffic goes to the local
// instance.
func NewDynamoClient(cfg *config.Config) *dynamodb.Client {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic("failed to load AWS config: " + err.Error())
	}

	clientOpts := []func(*dynamodb.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return dynamodb.NewFromConfig(awsCfg, clientOpts...)
}

func NewDynamoKV(client *dynamodb.Client, tableName string, ttl time.Duration) *DynamoKV {
	return &DynamoKV{client: client, tableName: tableName, ttl: ttl}
}

func (d *DynamoKV) Put(ctx context.Context, profileID, record string, payload []byte) error {
	item, err := attributevalue.MarshalMap(profileItem{
		ProfileID:  profileID,
		RecordType: record,
		Payload:    payload,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
		ExpiresAt:  time.Now().Add(d.ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal profile record: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	return err
}

func (d *DynamoKV) Get(ctx context.Context, profileID, record string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       compositeKey(profileID, record),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("record %s: %w", record, domain.ErrNotFound)
	}
	var item profileItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return item.Payload, nil
}

func (d *DynamoKV) Delete(ctx context.Context, profileID, record string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       compositeKey(profileID, record),
	})
	return err
}

// Take deletes the record and returns its previous payload in one call, so
// two concurrent consumers cannot both see it.
func (d *DynamoKV) Take(ctx context.Context, profileID, record string) ([]byte, error) {
	out, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(d.tableName),
		Key:          compositeKey(profileID, record),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, err
	}
	if out.Attributes == nil {
		return nil, fmt.Errorf("record %s: %w", record, domain.ErrNotFound)
	}
	var item profileItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, err
	}
	return item.Payload, nil
}

// compositeKey builds the table's primary key (PK profile_id + SK record_type).
func compositeKey(profileID, record string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"profile_id":  &types.AttributeValueMemberS{Value: profileID},
		"record_type": &types.AttributeValueMemberS{Value: record},
	}
}

// Bootstrap creates the profile-state table if it doesn't already exist.
// Safe to call on every startup.
func Bootstrap(ctx context.Context, client *dynamodb.Client, tableName string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("profile_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("record_type"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("profile_id"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("record_type"), KeyType: types.KeyTypeRange},
		},
	})
	if err != nil {
		var exists *types.ResourceInUseException
		if errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	_, err = client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String("expires_at"),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("enable ttl on %s: %w", tableName, err)
	}
	return nil
}
