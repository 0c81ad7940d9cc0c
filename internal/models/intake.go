// internal/models/intake.go
package models

const (
	// IntakePartitionKey is the single partition every intake record lives in.
	IntakePartitionKey = "intake"
	// IntakeStatusNew is the only status this service ever writes.
	IntakeStatusNew = "new"
)

// IntakeFields are the five caller-supplied values, kept exactly as sent.
type IntakeFields struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName"`
	ProjectType  string `json:"projectType"`
	Goals        string `json:"goals"`
}

// IntakeRecord is one persisted submission. It is written once and never updated.
type IntakeRecord struct {
	RequestID string `json:"requestId"`
	CreatedAt string `json:"createdAt"`
	Status    string `json:"status"`
	IntakeFields
}

// PartitionKey returns the table partition for the record.
func (r *IntakeRecord) PartitionKey() string {
	return IntakePartitionKey
}

// RowKey returns the table row key for the record.
func (r *IntakeRecord) RowKey() string {
	return r.RequestID
}

// Columns returns the stored non-key columns by name.
func (r *IntakeRecord) Columns() map[string]interface{} {
	return map[string]interface{}{
		"createdAt":    r.CreatedAt,
		"status":       r.Status,
		"name":         r.Name,
		"email":        r.Email,
		"businessName": r.BusinessName,
		"projectType":  r.ProjectType,
		"goals":        r.Goals,
	}
}
