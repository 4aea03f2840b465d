package dto

import (
	"encoding/json"
	"time"

	"fakturo/internal/infrastructure/storage/postgres"
)

// HistoryEntryResponse is one archived document snapshot.
// Payload is the document exactly as it was at the lifecycle event.
type HistoryEntryResponse struct {
	ID        string          `json:"id"`
	Reason    string          `json:"reason"`
	UserID    string          `json:"userId,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// FromSnapshots maps snapshot entries, newest first.
func FromSnapshots(entries []postgres.Snapshot) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, HistoryEntryResponse{
			ID:        e.ID.String(),
			Reason:    string(e.Reason),
			UserID:    e.UserID,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
