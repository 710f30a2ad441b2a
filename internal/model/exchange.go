package model

import "time"

type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

func (d Direction) String() string { return string(d) }

func (d Direction) Valid() bool {
	return d == DirectionSent || d == DirectionReceived
}

// Exchange is one journaled half of an API call. It never holds raw credentials.
type Exchange struct {
	ID          string            `json:"id" db:"id"`
	RequestID   string            `json:"request_id" db:"request_id"`
	Direction   Direction         `json:"direction" db:"direction"`
	Environment Environment       `json:"environment" db:"environment"`
	Status      int               `json:"status" db:"status"` // HTTP status; 0 for sent
	Payload     string            `json:"payload" db:"payload"`
	Meta        map[string]string `json:"meta,omitempty" db:"-"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}
