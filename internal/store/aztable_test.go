package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTableService struct {
	created []string
	err     error
}

func (f *fakeTableService) CreateTable(ctx context.Context, name string, options *aztables.CreateTableOptions) (aztables.CreateTableResponse, error) {
	f.created = append(f.created, name)
	return aztables.CreateTableResponse{}, f.err
}

type fakeTableClient struct {
	entities [][]byte
	err      error
}

func (f *fakeTableClient) AddEntity(ctx context.Context, entity []byte, options *aztables.AddEntityOptions) (aztables.AddEntityResponse, error) {
	if f.err != nil {
		return aztables.AddEntityResponse{}, f.err
	}
	f.entities = append(f.entities, entity)
	return aztables.AddEntityResponse{}, nil
}

func azureError(code string, status int) error {
	req, _ := http.NewRequest(http.MethodPost, "https://acct.table.core.windows.net/Tables", nil)
	return &azcore.ResponseError{
		ErrorCode:  code,
		StatusCode: status,
		RawResponse: &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     http.Header{},
			Body:       http.NoBody,
			Request:    req,
		},
	}
}

func newTestAzureStore(svc *fakeTableService, client *fakeTableClient) *AzureTableStore {
	return &AzureTableStore{
		service:   svc,
		newClient: func(string) entityAdder { return client },
		tableName: "intakeRequests",
	}
}

func TestAzureTable_PutWritesEntity(t *testing.T) {
	svc := &fakeTableService{}
	client := &fakeTableClient{}
	s := newTestAzureStore(svc, client)

	table, err := s.EnsureTable(context.Background())
	require.NoError(t, err)
	require.NoError(t, table.Put(context.Background(), sampleRecord()))

	assert.Equal(t, []string{"intakeRequests"}, svc.created)
	require.Len(t, client.entities, 1)

	var entity map[string]interface{}
	require.NoError(t, json.Unmarshal(client.entities[0], &entity))
	assert.Equal(t, "intake", entity["PartitionKey"])
	assert.Equal(t, "REQ-0A1B2C3D", entity["RowKey"])
	assert.Equal(t, "new", entity["status"])
	assert.Equal(t, "2026-03-01T12:00:00Z", entity["createdAt"])
	assert.Equal(t, "Ann", entity["name"])
	assert.Equal(t, "a@b.com", entity["email"])
	assert.Equal(t, "Acme", entity["businessName"])
	assert.Equal(t, "site", entity["projectType"])
	assert.Equal(t, "grow", entity["goals"])
}

func TestAzureTable_EnsureTableIdempotent(t *testing.T) {
	svc := &fakeTableService{err: azureError("TableAlreadyExists", http.StatusConflict)}
	s := newTestAzureStore(svc, &fakeTableClient{})

	table, err := s.EnsureTable(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, table)
}

func TestAzureTable_EnsureTableUnavailable(t *testing.T) {
	svc := &fakeTableService{err: azureError("AuthenticationFailed", http.StatusForbidden)}
	s := newTestAzureStore(svc, &fakeTableClient{})

	_, err := s.EnsureTable(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestAzureTable_PutDuplicate(t *testing.T) {
	client := &fakeTableClient{err: azureError("EntityAlreadyExists", http.StatusConflict)}
	s := newTestAzureStore(&fakeTableService{}, client)

	table, err := s.EnsureTable(context.Background())
	require.NoError(t, err)

	err = table.Put(context.Background(), sampleRecord())
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestAzureTable_PutTransportError(t *testing.T) {
	client := &fakeTableClient{err: errors.New("dial tcp: i/o timeout")}
	s := newTestAzureStore(&fakeTableService{}, client)

	table, err := s.EnsureTable(context.Background())
	require.NoError(t, err)

	err = table.Put(context.Background(), sampleRecord())
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.False(t, errors.Is(err, ErrDuplicate))
}
