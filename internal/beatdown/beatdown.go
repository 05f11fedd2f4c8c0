package beatdown

import (
	"time"

	"github.com/google/uuid"
)

// Beatdown is a single scheduled group workout at an AO.
type Beatdown struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AoID      uuid.UUID `json:"aoId" db:"ao_id"`
	Date      time.Time `json:"date" db:"date"`
	QID       uuid.UUID `json:"qId" db:"q_id"`
	Style     string    `json:"style" db:"style"`
	Note      string    `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// BeatdownWithAo is the list-view shape: the event plus the AO name
// and attendance headcount, so clients avoid N+1 lookups.
type BeatdownWithAo struct {
	Beatdown
	AoName    string `json:"aoName"`
	QName     string `json:"qName"`
	PaxCount  int    `json:"paxCount"`
}

type CreateBeatdownRequest struct {
	AoID  string `json:"aoId" validate:"required"`
	Date  string `json:"date" validate:"required"` // MM/DD/YYYY
	QID   string `json:"qId" validate:"required"`
	Style string `json:"style"`
	Note  string `json:"note,omitempty"`
}

type UpdateBeatdownRequest struct {
	Date  string `json:"date,omitempty"` // MM/DD/YYYY
	QID   string `json:"qId,omitempty"`
	Style string `json:"style,omitempty"`
	Note  string `json:"note,omitempty"`
}
