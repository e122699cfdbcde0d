package models

import "time"

// ChangeAction enumerates the mutations applied to the worksheet.
type ChangeAction string

const (
	ChangeAdd    ChangeAction = "add"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// ChangeEvent describes one successful mutation of the inventory.
type ChangeEvent struct {
	Action    ChangeAction `bson:"action" json:"action"`
	Index     int          `bson:"index" json:"index"`
	Name      string       `bson:"name" json:"name"`
	Type      string       `bson:"type" json:"type"`
	Quantity  string       `bson:"quantity" json:"quantity"`
	Unit      string       `bson:"unit" json:"unit"`
	Worksheet string       `bson:"worksheet" json:"worksheet"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}

// NewChangeEvent builds an event for the given item.
func NewChangeEvent(action ChangeAction, item Item, at time.Time) ChangeEvent {
	return ChangeEvent{
		Action:    action,
		Index:     item.Index,
		Name:      item.Name,
		Type:      item.Type,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		CreatedAt: at,
	}
}
