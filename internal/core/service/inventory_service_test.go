package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestService(queueSize int) *InventoryService {
	svc := NewInventoryService(queueSize)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func milk() domain.InventoryItem {
	return domain.InventoryItem{ID: 1, Name: "Milk", Quantity: 10, Price: 2.5, ExpirationDate: 1700000000}
}

func TestAddItem_ThenGet(t *testing.T) {
	svc := newTestService(0)

	svc.AddItem(milk())

	got, ok := svc.GetItem(1)
	if !ok {
		t.Fatal("expected item 1 to exist")
	}
	if got != milk() {
		t.Errorf("expected %+v, got %+v", milk(), got)
	}

	logs := svc.GetLogs()
	if len(logs) != 1 || logs[0] != "Item 1 added at 2024-01-15T10:30:00Z" {
		t.Errorf("unexpected logs: %v", logs)
	}
}

func TestAddItem_OverwriteReplacesAllFields(t *testing.T) {
	svc := newTestService(0)

	svc.AddItem(milk())
	replacement := domain.InventoryItem{ID: 1, Name: "Bread", Quantity: 3}
	svc.AddItem(replacement)

	got, _ := svc.GetItem(1)
	if got != replacement {
		t.Errorf("expected %+v, got %+v", replacement, got)
	}

	logs := svc.GetLogs()
	if len(logs) != 2 || logs[0] != logs[1] {
		t.Errorf("expected two identical add entries, got %v", logs)
	}
}

func TestAddItem_PermissiveValues(t *testing.T) {
	svc := newTestService(0)

	item := domain.InventoryItem{ID: 0, Name: "", Quantity: 0, Price: -1.25, ExpirationDate: 1}
	svc.AddItem(item)

	got, ok := svc.GetItem(0)
	if !ok || got != item {
		t.Errorf("expected %+v to be stored, got %+v (found=%v)", item, got, ok)
	}
}

func TestGetItem_Missing(t *testing.T) {
	svc := newTestService(0)

	if _, ok := svc.GetItem(42); ok {
		t.Error("expected item 42 to be absent")
	}
	if len(svc.GetLogs()) != 0 {
		t.Error("get should not log")
	}
}

func TestGetItem_ReturnsCopy(t *testing.T) {
	svc := newTestService(0)
	svc.AddItem(milk())

	got, _ := svc.GetItem(1)
	got.Quantity = 999

	again, _ := svc.GetItem(1)
	if again.Quantity != 10 {
		t.Errorf("expected stored quantity 10, got %d", again.Quantity)
	}
}

func TestUpdateItemQuantity_Success(t *testing.T) {
	svc := newTestService(0)
	svc.AddItem(milk())

	svc.UpdateItemQuantity(1, 4)

	got, _ := svc.GetItem(1)
	if got.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", got.Quantity)
	}
	if got.Name != "Milk" || got.Price != 2.5 {
		t.Errorf("other fields changed: %+v", got)
	}

	logs := svc.GetLogs()
	if logs[len(logs)-1] != "Item 1 quantity updated to 4 at 2024-01-15T10:30:00Z" {
		t.Errorf("unexpected entry: %s", logs[len(logs)-1])
	}
}

func TestUpdateItemQuantity_ZeroKeepsItem(t *testing.T) {
	svc := newTestService(0)
	svc.AddItem(milk())

	svc.UpdateItemQuantity(1, 0)

	got, ok := svc.GetItem(1)
	if !ok {
		t.Fatal("item removed at zero quantity")
	}
	if got.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", got.Quantity)
	}
}

func TestUpdateItemQuantity_MissingIsSilent(t *testing.T) {
	svc := newTestService(1)
	svc.AddItem(milk())
	<-svc.ChangeQueue()

	before := len(svc.GetLogs())
	svc.UpdateItemQuantity(999, 5)

	if len(svc.GetLogs()) != before {
		t.Errorf("expected %d log entries, got %d", before, len(svc.GetLogs()))
	}
	if _, ok := svc.GetItem(999); ok {
		t.Error("update must not create item 999")
	}
	select {
	case c := <-svc.ChangeQueue():
		t.Errorf("unexpected change emitted: %+v", c)
	default:
	}
}

func TestRemoveItem_ThenGet(t *testing.T) {
	svc := newTestService(0)
	svc.AddItem(milk())

	svc.RemoveItem(1)

	if _, ok := svc.GetItem(1); ok {
		t.Error("expected item 1 to be absent")
	}

	svc.RemoveItem(1)

	logs := svc.GetLogs()
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d: %v", len(logs), logs)
	}
	if logs[1] != "Item 1 removed at 2024-01-15T10:30:00Z" {
		t.Errorf("unexpected entry: %s", logs[1])
	}
}

func TestLogs_OrderAndTimestamps(t *testing.T) {
	svc := NewInventoryService(0)

	svc.AddItem(milk())
	svc.UpdateItemQuantity(1, 7)
	svc.RemoveItem(1)

	logs := svc.GetLogs()
	if len(logs) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(logs))
	}

	prefixes := []string{"Item 1 added at ", "Item 1 quantity updated to 7 at ", "Item 1 removed at "}
	for i, prefix := range prefixes {
		if !strings.HasPrefix(logs[i], prefix) {
			t.Errorf("entry %d: expected prefix %q, got %q", i, prefix, logs[i])
			continue
		}
		ts := strings.TrimPrefix(logs[i], prefix)
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			t.Errorf("entry %d: timestamp %q not RFC3339: %v", i, ts, err)
		}
	}

	again := svc.GetLogs()
	if strings.Join(again, "\n") != strings.Join(logs, "\n") {
		t.Error("consecutive GetLogs calls differ")
	}
}

func TestGetLogs_ReturnsCopy(t *testing.T) {
	svc := newTestService(0)
	svc.AddItem(milk())

	logs := svc.GetLogs()
	logs[0] = "tampered"

	if svc.GetLogs()[0] == "tampered" {
		t.Error("GetLogs exposed internal slice")
	}
}

func TestChangeQueue_Disabled(t *testing.T) {
	svc := newTestService(0)
	if svc.ChangeQueue() != nil {
		t.Error("expected nil queue")
	}
	svc.AddItem(milk())
	svc.Close()
	svc.Close()
}

func TestChangeQueue_EmitsInLogOrder(t *testing.T) {
	svc := newTestService(10)

	svc.AddItem(milk())
	svc.UpdateItemQuantity(1, 3)
	svc.UpdateItemQuantity(2, 3)
	svc.RemoveItem(1)
	svc.Close()

	var changes []domain.Change
	for c := range svc.ChangeQueue() {
		changes = append(changes, c)
	}

	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}

	logs := svc.GetLogs()
	kinds := []domain.ChangeKind{domain.ChangeAdded, domain.ChangeQuantityUpdated, domain.ChangeRemoved}
	for i, c := range changes {
		if c.Seq != i+1 {
			t.Errorf("change %d: expected seq %d, got %d", i, i+1, c.Seq)
		}
		if c.Kind != kinds[i] {
			t.Errorf("change %d: expected kind %s, got %s", i, kinds[i], c.Kind)
		}
		if c.Entry != logs[i] {
			t.Errorf("change %d: entry %q does not match log %q", i, c.Entry, logs[i])
		}
		if c.ID == "" {
			t.Errorf("change %d: empty id", i)
		}
	}

	if changes[1].Item.Quantity != 3 || changes[1].Item.Name != "Milk" {
		t.Errorf("update change should carry the full item, got %+v", changes[1].Item)
	}
	if changes[2].Item != (domain.InventoryItem{}) {
		t.Errorf("remove change should carry a zero item, got %+v", changes[2].Item)
	}
}

func TestClose_MutationsStillApply(t *testing.T) {
	svc := newTestService(1)
	svc.Close()

	svc.AddItem(milk())

	if _, ok := svc.GetItem(1); !ok {
		t.Error("expected item after close")
	}
	if len(svc.GetLogs()) != 1 {
		t.Error("expected log entry after close")
	}
}

func TestRestoreAndSnapshot(t *testing.T) {
	svc := newTestService(1)

	items := []domain.InventoryItem{{ID: 3, Name: "Eggs"}, {ID: 1, Name: "Milk"}}
	logs := []string{"Item 1 added at 2024-01-01T00:00:00Z", "Item 3 added at 2024-01-01T00:00:01Z"}
	svc.Restore(domain.Snapshot{Items: items, Logs: logs, LastSeq: 2})

	if n, l := svc.Stats(); n != 2 || l != 2 {
		t.Errorf("expected stats 2/2, got %d/%d", n, l)
	}
	select {
	case c := <-svc.ChangeQueue():
		t.Errorf("restore emitted change %+v", c)
	default:
	}

	snap := svc.Snapshot()
	if snap.Items[0].ID != 1 || snap.Items[1].ID != 3 {
		t.Errorf("snapshot not ordered by id: %+v", snap.Items)
	}
	if len(snap.Logs) != 2 || snap.Logs[1] != logs[1] {
		t.Errorf("unexpected snapshot logs: %v", snap.Logs)
	}
	if snap.LastSeq != 2 {
		t.Errorf("expected last seq 2, got %d", snap.LastSeq)
	}

	svc.RemoveItem(3)
	c := <-svc.ChangeQueue()
	if c.Seq != 3 {
		t.Errorf("expected seq to continue at 3, got %d", c.Seq)
	}
}

func TestRestore_GappedJournalResumesAfterLastSeq(t *testing.T) {
	svc := newTestService(1)

	// Journal holds seqs 1 and 3; seq 2 never reached the sink.
	svc.Restore(domain.Snapshot{
		Items:   []domain.InventoryItem{{ID: 1, Name: "Milk", Quantity: 10}},
		Logs:    []string{"Item 1 added at 2024-01-01T00:00:00Z", "Item 1 quantity updated to 10 at 2024-01-01T00:00:02Z"},
		LastSeq: 3,
	})

	svc.UpdateItemQuantity(1, 77)

	c := <-svc.ChangeQueue()
	if c.Seq != 4 {
		t.Errorf("expected seq 4 after a journal ending at 3, got %d", c.Seq)
	}
	if got := svc.Snapshot().LastSeq; got != 4 {
		t.Errorf("expected last seq 4, got %d", got)
	}
	if len(svc.GetLogs()) != 3 {
		t.Errorf("expected 3 log entries, got %d", len(svc.GetLogs()))
	}
}

func TestRestore_LastSeqNeverBehindLog(t *testing.T) {
	svc := newTestService(1)

	svc.Restore(domain.Snapshot{Logs: []string{"a", "b"}})
	svc.AddItem(milk())

	if c := <-svc.ChangeQueue(); c.Seq != 3 {
		t.Errorf("expected seq 3, got %d", c.Seq)
	}
}

func TestInventory_Concurrent(t *testing.T) {
	svc := NewInventoryService(0)

	workers := 20
	perWorker := 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := uint32(w*perWorker + i)
				svc.AddItem(domain.InventoryItem{ID: id, Name: fmt.Sprintf("item-%d", id)})
				svc.UpdateItemQuantity(id, uint32(i))
				_ = svc.GetLogs()
			}
		}(w)
	}
	wg.Wait()

	items, logs := svc.Stats()
	if items != workers*perWorker {
		t.Errorf("expected %d items, got %d", workers*perWorker, items)
	}
	if logs != 2*workers*perWorker {
		t.Errorf("expected %d log entries, got %d", 2*workers*perWorker, logs)
	}
}
