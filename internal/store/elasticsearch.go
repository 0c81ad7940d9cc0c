package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lead-intake/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "partitionKey": {"type": "keyword"},
      "requestId":    {"type": "keyword"},
      "createdAt":    {"type": "date"},
      "status":       {"type": "keyword"},
      "name":         {"type": "text"},
      "email":        {"type": "keyword"},
      "businessName": {"type": "text"},
      "projectType":  {"type": "keyword"},
      "goals":        {"type": "text"}
    }
  }
}`

// ElasticsearchStore writes each record as a document in one index, using
// the row key as document id.
type ElasticsearchStore struct {
	es    *elasticsearch.Client
	index string
}

func NewElasticsearchStore(es *elasticsearch.Client, tableName string) *ElasticsearchStore {
	return &ElasticsearchStore{es: es, index: strings.ToLower(tableName)}
}

func (s *ElasticsearchStore) Driver() string { return "elasticsearch" }

func (s *ElasticsearchStore) Close() error { return nil }

func (s *ElasticsearchStore) EnsureTable(ctx context.Context) (Table, error) {
	res, err := s.es.Indices.Create(
		s.index,
		s.es.Indices.Create.WithContext(ctx),
		s.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return nil, unavailable(s.Driver(), "create index", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusBadRequest || !bytes.Contains(body, []byte("resource_already_exists_exception")) {
			return nil, unavailable(s.Driver(), "create index", fmt.Errorf("status %s: %s", res.Status(), body))
		}
	}
	return &esTable{es: s.es, index: s.index}, nil
}

type esTable struct {
	es    *elasticsearch.Client
	index string
}

type esDocument struct {
	PartitionKey string `json:"partitionKey"`
	*models.IntakeRecord
}

func (t *esTable) Put(ctx context.Context, record *models.IntakeRecord) error {
	data, err := json.Marshal(esDocument{PartitionKey: record.PartitionKey(), IntakeRecord: record})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := t.es.Create(
		t.index,
		record.RowKey(),
		bytes.NewReader(data),
		t.es.Create.WithContext(ctx),
	)
	if err != nil {
		return unavailable("elasticsearch", "create document", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		return duplicate("elasticsearch", record.RowKey())
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return unavailable("elasticsearch", "create document", fmt.Errorf("status %s: %s", res.Status(), body))
	}
	return nil
}
