package model

import (
	"time"

	"github.com/google/uuid"
)

// Ledger action kinds.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionEdit   = "edit"
)

// HistoryEntry records one catalog mutation with the product snapshot
// needed to reverse it. Rows are immutable after insert — they are only
// ever deleted, either by an undo or by retention pruning.
//
// Seq is a bigserial and gives a strict total order per table; CreatedAt
// timestamps can collide inside one transaction, so all "latest"/"oldest"
// queries order by Seq.
type HistoryEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq      int64     `gorm:"autoIncrement;uniqueIndex"`
	Username string    `gorm:"index;not null"`
	Action   string    `gorm:"type:varchar(10);not null"` // add | remove | edit

	// Product snapshot at the moment the mutation landed. For edit this
	// is the pre-edit state; for add/remove it is the state added/removed.
	ProductName        string `gorm:"not null"`
	ProductExternalID  string `gorm:"index;not null"`
	ProductDescription string
	ProductQuantity    int    `gorm:"not null"`
	ProductLocation    string `gorm:"not null"`

	// BulkGroupID links the entries created by one bulk import call.
	// Nil for single-product mutations.
	BulkGroupID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
}

// TableName overrides GORM's default pluralization (history_entrys → history_entries).
func (HistoryEntry) TableName() string { return "history_entries" }
