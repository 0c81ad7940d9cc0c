package notify

import (
	"fmt"

	"lead-intake/internal/models"
)

// Title is the one-line summary used for cards, subjects and SMS.
func Title(record *models.IntakeRecord) string {
	return fmt.Sprintf("New Lead: %s | %s", record.Name, record.ProjectType)
}

// Description is the multi-line body embedding the lead's details.
func Description(record *models.IntakeRecord) string {
	return fmt.Sprintf("--- SOURCE: Portfolio Site ---\nBusiness: %s\nEmail: %s\nGoals: %s\nRequest ID: %s",
		record.BusinessName, record.Email, record.Goals, record.RequestID)
}
