package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lead-intake/internal/models"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

const (
	azCodeTableExists  = "TableAlreadyExists"
	azCodeEntityExists = "EntityAlreadyExists"
)

type tableCreator interface {
	CreateTable(ctx context.Context, name string, options *aztables.CreateTableOptions) (aztables.CreateTableResponse, error)
}

type entityAdder interface {
	AddEntity(ctx context.Context, entity []byte, options *aztables.AddEntityOptions) (aztables.AddEntityResponse, error)
}

// AzureTableStore writes records to Azure Table Storage.
type AzureTableStore struct {
	service   tableCreator
	newClient func(tableName string) entityAdder
	tableName string
}

func NewAzureTableStore(svc *aztables.ServiceClient, tableName string) *AzureTableStore {
	return &AzureTableStore{
		service:   svc,
		newClient: func(name string) entityAdder { return svc.NewClient(name) },
		tableName: tableName,
	}
}

func (s *AzureTableStore) Driver() string { return "aztable" }

func (s *AzureTableStore) Close() error { return nil }

func (s *AzureTableStore) EnsureTable(ctx context.Context) (Table, error) {
	if _, err := s.service.CreateTable(ctx, s.tableName, nil); err != nil && !hasAzureCode(err, azCodeTableExists) {
		return nil, unavailable(s.Driver(), "create table", err)
	}
	return &azureTable{client: s.newClient(s.tableName)}, nil
}

type azureTable struct {
	client entityAdder
}

func (t *azureTable) Put(ctx context.Context, record *models.IntakeRecord) error {
	entity := aztables.EDMEntity{
		Entity: aztables.Entity{
			PartitionKey: record.PartitionKey(),
			RowKey:       record.RowKey(),
		},
		Properties: record.Columns(),
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}

	if _, err := t.client.AddEntity(ctx, data, nil); err != nil {
		if hasAzureCode(err, azCodeEntityExists) {
			return duplicate("aztable", record.RowKey())
		}
		return unavailable("aztable", "add entity", err)
	}
	return nil
}

func hasAzureCode(err error, code string) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.ErrorCode == code
}
