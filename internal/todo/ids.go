package todo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces ids that are unique within the given list.
type IDGenerator interface {
	NewID(existing List) string
}

// Supported id schemes.
const (
	IDSchemeTimestamp = "timestamp"
	IDSchemeUUID      = "uuid"
)

// TimestampIDs renders the creation time in Unix milliseconds. When the
// value is already taken it is incremented until it is free, so two adds
// within the same millisecond still get distinct ids.
type TimestampIDs struct {
	Now func() time.Time
}

// NewID implements IDGenerator.
func (g TimestampIDs) NewID(existing List) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	n := now().UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if existing.Index(id) < 0 {
			return id
		}
		n++
	}
}

// UUIDIDs generates random version 4 UUIDs.
type UUIDIDs struct{}

// NewID implements IDGenerator.
func (UUIDIDs) NewID(existing List) string {
	for {
		id := uuid.NewString()
		if existing.Index(id) < 0 {
			return id
		}
	}
}

// NewIDGenerator returns the generator for a configured scheme name.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", IDSchemeTimestamp:
		return TimestampIDs{}, nil
	case IDSchemeUUID:
		return UUIDIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q (expected %s|%s)", scheme, IDSchemeTimestamp, IDSchemeUUID)
	}
}
