package amqp

import (
	"encoding/json"
	"time"
)

// PeriodDirtyMessage tells the reconcile worker that a period's stored
// totals may no longer match its transactions. It carries only the period
// id; the worker reloads everything it needs from the store.
type PeriodDirtyMessage struct {
	PeriodID  string    `json:"period_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPeriodDirtyMessage(periodID string) *PeriodDirtyMessage {
	return &PeriodDirtyMessage{
		PeriodID:  periodID,
		Timestamp: time.Now(),
	}
}

func (m *PeriodDirtyMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PeriodDirtyMessageFromJSON(data []byte) (*PeriodDirtyMessage, error) {
	var msg PeriodDirtyMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
