// internal/common/database/aztables.go
package database

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// NewTableService creates an Azure Table Storage service client from a
// storage account connection string.
func NewTableService(connectionString string) (*aztables.ServiceClient, error) {
	svc, err := aztables.NewServiceClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create table service client: %w", err)
	}
	return svc, nil
}
