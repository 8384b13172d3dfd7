package realtime

import (
	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventRowChange      SSEEvent = "RowChange"
	SSEEventPurgeCompleted SSEEvent = "PurgeCompleted"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// RowChange describes a bulk mutation of one table scoped to a basket.
type RowChange struct {
	Table     string     `json:"table"`
	Type      ChangeType `json:"type"`
	BasketID  uuid.UUID  `json:"basket_id"`
	ProjectID uuid.UUID  `json:"project_id"`
	Count     int64      `json:"count"`
}

// BasketChannel is the channel row changes for a basket are broadcast on.
func BasketChannel(basketID uuid.UUID) string {
	return "basket:" + basketID.String()
}

func RowChangeMessage(change RowChange) SSEMessage {
	return SSEMessage{
		Channel: BasketChannel(change.BasketID),
		Event:   SSEEventRowChange,
		Data:    change,
	}
}
