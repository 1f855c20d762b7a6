package domain

import (
	"fmt"
	"time"
)

type ChangeKind string

const (
	ChangeAdded           ChangeKind = "added"
	ChangeQuantityUpdated ChangeKind = "quantity_updated"
	ChangeRemoved         ChangeKind = "removed"
)

// Change is the structured form of a single log entry. Item holds the record
// as it stands after the mutation and is zero for ChangeRemoved.
type Change struct {
	ID     string        `json:"id"`
	Seq    int           `json:"seq"` // 1-based position in the log
	Kind   ChangeKind    `json:"kind"`
	ItemID uint32        `json:"item_id"`
	Item   InventoryItem `json:"item"`
	Entry  string        `json:"entry"`
	At     time.Time     `json:"at"`
}

// FormatTimestamp renders t in UTC as RFC3339, e.g. 2024-01-15T10:30:00Z.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func AddedEntry(id uint32, at time.Time) string {
	return fmt.Sprintf("Item %d added at %s", id, FormatTimestamp(at))
}

func QuantityUpdatedEntry(id, quantity uint32, at time.Time) string {
	return fmt.Sprintf("Item %d quantity updated to %d at %s", id, quantity, FormatTimestamp(at))
}

func RemovedEntry(id uint32, at time.Time) string {
	return fmt.Sprintf("Item %d removed at %s", id, FormatTimestamp(at))
}
