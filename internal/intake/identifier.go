package intake

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDPrefix = "REQ-"
	createdAtLayout = "2006-01-02T15:04:05Z"
)

// IdentifierGenerator issues request ids and creation timestamps. Uniqueness
// rests on the UUID's randomness; the store is never consulted.
type IdentifierGenerator struct {
	now     func() time.Time
	newUUID func() uuid.UUID
}

func NewIdentifierGenerator(now func() time.Time, newUUID func() uuid.UUID) *IdentifierGenerator {
	if now == nil {
		now = time.Now
	}
	if newUUID == nil {
		newUUID = uuid.New
	}
	return &IdentifierGenerator{now: now, newUUID: newUUID}
}

// Generate returns "REQ-" plus 8 uppercase hex digits, and the current UTC
// time truncated to the second with a trailing Z.
func (g *IdentifierGenerator) Generate() (requestID, createdAt string) {
	id := g.newUUID()
	requestID = requestIDPrefix + strings.ToUpper(hex.EncodeToString(id[:4]))
	createdAt = g.now().UTC().Truncate(time.Second).Format(createdAtLayout)
	return requestID, createdAt
}
