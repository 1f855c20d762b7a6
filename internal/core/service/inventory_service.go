package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
)

// InventoryService owns the item table and the append-only change log.
// A single mutex guards both so every operation observes one consistent state.
type InventoryService struct {
	mu     sync.Mutex
	items  map[uint32]domain.InventoryItem
	logs   []string
	seq    int
	now    func() time.Time
	queue  chan domain.Change
	closed bool
}

// NewInventoryService creates an empty store. With a positive queueSize every
// logged mutation is also emitted on ChangeQueue; zero disables emission.
func NewInventoryService(queueSize int) *InventoryService {
	s := &InventoryService{
		items: make(map[uint32]domain.InventoryItem),
		now:   time.Now,
	}
	if queueSize > 0 {
		s.queue = make(chan domain.Change, queueSize)
	}
	return s
}

// AddItem inserts item or replaces every field of the record with the same id.
func (s *InventoryService) AddItem(item domain.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = item
	at := s.now()
	s.record(domain.ChangeAdded, item.ID, item, domain.AddedEntry(item.ID, at), at)
}

func (s *InventoryService) GetItem(id uint32) (domain.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	return item, ok
}

// UpdateItemQuantity sets the quantity of an existing item. Unknown ids are
// ignored without a log entry.
func (s *InventoryService) UpdateItemQuantity(id, quantity uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return
	}
	item.Quantity = quantity
	s.items[id] = item

	at := s.now()
	s.record(domain.ChangeQuantityUpdated, id, item, domain.QuantityUpdatedEntry(id, quantity, at), at)
}

// RemoveItem deletes an existing item. Unknown ids are ignored without a log entry.
func (s *InventoryService) RemoveItem(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)

	at := s.now()
	s.record(domain.ChangeRemoved, id, domain.InventoryItem{}, domain.RemovedEntry(id, at), at)
}

func (s *InventoryService) GetLogs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]string, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// Restore replaces the whole state, typically from a snapshot loaded at
// startup. Nothing is logged or emitted. Change numbering resumes after
// snap.LastSeq, or after the restored log when that is longer.
func (s *InventoryService) Restore(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[uint32]domain.InventoryItem, len(snap.Items))
	for _, item := range snap.Items {
		s.items[item.ID] = item
	}
	s.logs = make([]string, len(snap.Logs))
	copy(s.logs, snap.Logs)

	s.seq = snap.LastSeq
	if s.seq < len(s.logs) {
		s.seq = len(s.logs)
	}
}

// Snapshot returns copies of the items, ordered by id, and of the log.
func (s *InventoryService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	logs := make([]string, len(s.logs))
	copy(logs, s.logs)
	return domain.Snapshot{Items: items, Logs: logs, LastSeq: s.seq}
}

func (s *InventoryService) Stats() (items, logEntries int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items), len(s.logs)
}

// ChangeQueue is nil when the service was built without a queue.
func (s *InventoryService) ChangeQueue() <-chan domain.Change {
	return s.queue
}

// Close closes the change queue. Mutations after Close still apply but are
// no longer emitted.
func (s *InventoryService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.queue != nil {
		close(s.queue)
	}
}

// record must be called with s.mu held. Emitting under the lock keeps the
// queue in log order.
func (s *InventoryService) record(kind domain.ChangeKind, id uint32, item domain.InventoryItem, entry string, at time.Time) {
	s.logs = append(s.logs, entry)
	s.seq++

	if s.queue == nil || s.closed {
		return
	}
	s.queue <- domain.Change{
		ID:     uuid.New().String(),
		Seq:    s.seq,
		Kind:   kind,
		ItemID: id,
		Item:   item,
		Entry:  entry,
		At:     at.UTC(),
	}
}
