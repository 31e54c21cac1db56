// Package ddb implements runlog.Log on DynamoDB.
//
// DynamoDB conditional writes give the compare-and-swap that object stores
// lack, so concurrent batch runs against one output location still receive
// unique run numbers.
//
// Table schema:
//   - Partition key: base_uri (string), the output location
//   - Sort key: run (number), strictly increasing per base_uri
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name meshq-runs \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=run,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=run,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package ddb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/meshq/runlog"
)

// Client is the subset of the DynamoDB API the log needs.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DefaultMaxAttempts bounds Append's retries after a lost race.
const DefaultMaxAttempts = 5

// Log is a runlog.Log stored in one DynamoDB table.
type Log struct {
	client      Client
	table       string
	baseURI     string
	maxAttempts int
}

var _ runlog.Log = (*Log)(nil)

// New creates a Log for the output location baseURI, e.g. "s3://bucket/out/".
func New(client Client, table, baseURI string) *Log {
	return &Log{client: client, table: table, baseURI: baseURI, maxAttempts: DefaultMaxAttempts}
}

// Append implements runlog.Log. A lost race re-reads the latest run and
// retries; runlog.ErrConflict is returned once the attempts are exhausted.
func (l *Log) Append(ctx context.Context, e runlog.Entry) (uint64, error) {
	for range l.maxAttempts {
		latest, _, err := l.Latest(ctx)
		if err != nil {
			return 0, err
		}
		e.Run = latest.Run + 1

		err = l.put(ctx, e)
		if err == nil {
			return e.Run, nil
		}
		if !errors.Is(err, runlog.ErrConflict) {
			return 0, err
		}
	}
	return 0, runlog.ErrConflict
}

func (l *Log) put(ctx context.Context, e runlog.Entry) error {
	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item: map[string]types.AttributeValue{
			"base_uri":    &types.AttributeValueMemberS{Value: l.baseURI},
			"run":         number(e.Run),
			"report":      &types.AttributeValueMemberS{Value: e.Report},
			"meshes":      number(uint64(e.Meshes)),
			"failed":      number(uint64(e.Failed)),
			"elapsed_ms":  number(uint64(e.Elapsed.Milliseconds())),
			"finished_at": &types.AttributeValueMemberS{Value: e.Finished.UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression:      aws.String("attribute_not_exists(#run)"),
		ExpressionAttributeNames: map[string]string{"#run": "run"},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return runlog.ErrConflict
		}
		return fmt.Errorf("runlog: put run %d: %w", e.Run, err)
	}
	return nil
}

// Latest implements runlog.Log.
func (l *Log) Latest(ctx context.Context) (runlog.Entry, bool, error) {
	resp, err := l.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(l.table),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: l.baseURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return runlog.Entry{}, false, fmt.Errorf("runlog: query %s: %w", l.table, err)
	}
	if len(resp.Items) == 0 {
		return runlog.Entry{}, false, nil
	}
	e, err := decode(resp.Items[0])
	if err != nil {
		return runlog.Entry{}, false, err
	}
	return e, true, nil
}

func number(v uint64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatUint(v, 10)}
}

func decode(item map[string]types.AttributeValue) (runlog.Entry, error) {
	var e runlog.Entry

	nums := map[string]*uint64{"run": &e.Run}
	var meshes, failed, elapsed uint64
	nums["meshes"], nums["failed"], nums["elapsed_ms"] = &meshes, &failed, &elapsed
	for name, dst := range nums {
		attr, ok := item[name].(*types.AttributeValueMemberN)
		if !ok {
			return e, fmt.Errorf("runlog: item without numeric %s", name)
		}
		v, err := strconv.ParseUint(attr.Value, 10, 64)
		if err != nil {
			return e, fmt.Errorf("runlog: %s: %w", name, err)
		}
		*dst = v
	}
	e.Meshes, e.Failed = int(meshes), int(failed)
	e.Elapsed = time.Duration(elapsed) * time.Millisecond

	if attr, ok := item["report"].(*types.AttributeValueMemberS); ok {
		e.Report = attr.Value
	}
	if attr, ok := item["finished_at"].(*types.AttributeValueMemberS); ok {
		t, err := time.Parse(time.RFC3339Nano, attr.Value)
		if err != nil {
			return e, fmt.Errorf("runlog: finished_at: %w", err)
		}
		e.Finished = t
	}
	return e, nil
}
