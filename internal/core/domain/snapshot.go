package domain

// Snapshot is the full store state. LastSeq is the seq of the newest change
// ever emitted; it can exceed len(Logs) when a sink missed changes.
type Snapshot struct {
	Items   []InventoryItem
	Logs    []string
	LastSeq int
}
