package events

import (
	"encoding/json"
	"time"
)

// ExpenseEventMessage is a lightweight change notification. It carries only
// the expense id and the action; consumers fetch the full row from storage.
type ExpenseEventMessage struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(id, action string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
