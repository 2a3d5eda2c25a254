package models

import "time"

// LedgerEntry is one append-only point award. Rows are never updated or
// deleted except by cascade when their owning user is removed.
//
// ExternalEventKey identifies one real-world occurrence of a reportable
// action ("{campaign}:{entry}" for gleam). The unique index on it is the
// dedup mechanism for the whole system: a retried delivery loses the insert
// race at the database and is reported as a duplicate, never double-applied.
type LedgerEntry struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	User             User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Delta            int       `json:"delta" gorm:"not null"`
	Reason           string    `json:"reason" gorm:"type:varchar(255);not null"`
	Source           string    `json:"source" gorm:"type:varchar(50);not null"`
	ExternalEventKey string    `json:"external_event_key" gorm:"uniqueIndex;type:varchar(191);not null"`
	RawPayload       []byte    `json:"-"` // audit snapshot of the delivery body, never interpreted
	CreatedAt        time.Time `json:"created_at"`
}

// TableName keeps the historical table name.
func (LedgerEntry) TableName() string {
	return "growth_ledger"
}

// ApplyResult is the outcome of LedgerService.ApplyEvent. Applied is false
// when the event key had already been recorded; Total reflects the user's
// current total in both cases.
type ApplyResult struct {
	Applied bool `json:"applied"`
	Total   int  `json:"total"`
}
