package ddb

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/meshq/runlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTable is an in-memory DynamoDB table keyed by base_uri and run.
type memoryTable struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	// beforePut runs once, before the first PutItem, to simulate a racing writer.
	beforePut func()
}

func newMemoryTable() *memoryTable {
	return &memoryTable{items: make(map[string]map[string]types.AttributeValue)}
}

func itemKey(item map[string]types.AttributeValue) string {
	return item["base_uri"].(*types.AttributeValueMemberS).Value + ":" + item["run"].(*types.AttributeValueMemberN).Value
}

func (m *memoryTable) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if hook := m.beforePut; hook != nil {
		m.beforePut = nil
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := itemKey(params.Item)
	if params.ConditionExpression != nil {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *memoryTable) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	uri := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value
	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["base_uri"].(*types.AttributeValueMemberS).Value == uri {
			items = append(items, item)
		}
	}
	run := func(i int) uint64 {
		v, _ := strconv.ParseUint(items[i]["run"].(*types.AttributeValueMemberN).Value, 10, 64)
		return v
	}
	sort.Slice(items, func(i, j int) bool { return run(i) > run(j) })
	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func TestLog_Append(t *testing.T) {
	ctx := context.Background()
	log := New(newMemoryTable(), "meshq-runs", "s3://scans/out/")

	_, ok, err := log.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	finished := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for want := uint64(1); want <= 3; want++ {
		run, err := log.Append(ctx, runlog.Entry{
			Report:   "error_summary.csv",
			Meshes:   int(want) + 1,
			Failed:   1,
			Elapsed:  1500 * time.Millisecond,
			Finished: finished,
		})
		require.NoError(t, err)
		assert.Equal(t, want, run)
	}

	latest, ok, err := log.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, runlog.Entry{
		Run:      3,
		Report:   "error_summary.csv",
		Meshes:   4,
		Failed:   1,
		Elapsed:  1500 * time.Millisecond,
		Finished: finished,
	}, latest)
}

func TestLog_IsolatedLocations(t *testing.T) {
	ctx := context.Background()
	table := newMemoryTable()
	a := New(table, "meshq-runs", "s3://scans/a/")
	b := New(table, "meshq-runs", "s3://scans/b/")

	_, err := a.Append(ctx, runlog.Entry{})
	require.NoError(t, err)
	_, err = a.Append(ctx, runlog.Entry{})
	require.NoError(t, err)

	run, err := b.Append(ctx, runlog.Entry{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), run)
}

func TestLog_AppendRetriesAfterLostRace(t *testing.T) {
	ctx := context.Background()
	table := newMemoryTable()
	log := New(table, "meshq-runs", "s3://scans/out/")
	other := New(table, "meshq-runs", "s3://scans/out/")

	table.beforePut = func() {
		_, err := other.Append(ctx, runlog.Entry{Report: "other"})
		require.NoError(t, err)
	}

	run, err := log.Append(ctx, runlog.Entry{Report: "mine"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), run)

	latest, _, err := log.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "mine", latest.Report)
}

type failingClient struct{ memoryTable }

func (*failingClient) Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return nil, errors.New("throttled")
}

func TestLog_QueryError(t *testing.T) {
	log := New(&failingClient{}, "meshq-runs", "s3://scans/out/")
	_, err := log.Append(context.Background(), runlog.Entry{})
	assert.ErrorContains(t, err, "throttled")
}
