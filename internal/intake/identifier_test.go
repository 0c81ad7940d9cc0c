package intake

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	requestIDPattern = regexp.MustCompile(`^REQ-[0-9A-F]{8}$`)
	createdAtPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
)

func TestIdentifierGenerator_Deterministic(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2026, 3, 1, 17, 30, 45, 987654321, loc)
	id := uuid.MustParse("0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d")

	g := NewIdentifierGenerator(func() time.Time { return now }, func() uuid.UUID { return id })
	requestID, createdAt := g.Generate()

	assert.Equal(t, "REQ-0A1B2C3D", requestID)
	assert.Equal(t, "2026-03-01T12:30:45Z", createdAt)
}

func TestIdentifierGenerator_FormatAndUniqueness(t *testing.T) {
	g := NewIdentifierGenerator(nil, nil)
	seen := make(map[string]struct{}, 200)

	for i := 0; i < 200; i++ {
		requestID, createdAt := g.Generate()
		assert.Regexp(t, requestIDPattern, requestID)
		assert.Regexp(t, createdAtPattern, createdAt)
		seen[requestID] = struct{}{}
	}
	assert.Len(t, seen, 200)
}
