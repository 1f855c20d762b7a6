package main

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
	"github.com/jan-ice17/supermarket-inventory/internal/core/service"
)

const (
	workers      = 50
	opsPerWorker = 200
	idsPerWorker = 7
	queueSize    = 1000
)

func main() {
	inventory := service.NewInventoryService(queueSize)

	// Drain the change queue in background
	var emitted atomic.Int64
	drained := make(chan struct{})
	go func() {
		for range inventory.ChangeQueue() {
			emitted.Add(1)
		}
		close(drained)
	}()

	// Counters
	var adds, updates, removes, noops atomic.Int64

	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			// Each worker owns a disjoint id range, so it knows whether an id
			// is present and can count the mutations that must be logged.
			present := make(map[uint32]bool, idsPerWorker)

			for i := 0; i < opsPerWorker; i++ {
				id := uint32(worker*idsPerWorker + i%idsPerWorker)

				switch (i / idsPerWorker) % 3 {
				case 0:
					inventory.AddItem(domain.InventoryItem{
						ID:       id,
						Name:     fmt.Sprintf("item-%d", id),
						Quantity: uint32(i),
						Price:    float64(i) / 10,
					})
					present[id] = true
					adds.Add(1)
				case 1:
					inventory.UpdateItemQuantity(id, uint32(i))
					if present[id] {
						updates.Add(1)
					} else {
						noops.Add(1)
					}
				case 2:
					_ = inventory.GetLogs()
					inventory.RemoveItem(id)
					if present[id] {
						delete(present, id)
						removes.Add(1)
					} else {
						noops.Add(1)
					}
					// Repeat removal is always a no-op
					inventory.RemoveItem(id)
					noops.Add(1)
				}
			}
		}(w)
	}

	wg.Wait()
	elapsed := time.Since(start)

	inventory.Close()
	<-drained

	logs := inventory.GetLogs()
	items, _ := inventory.Stats()
	effective := adds.Load() + updates.Load() + removes.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Workers:          %d\n", workers)
	fmt.Printf("Operations:       %d\n", workers*opsPerWorker)
	fmt.Printf("Adds:             %d\n", adds.Load())
	fmt.Printf("Updates:          %d\n", updates.Load())
	fmt.Printf("Removes:          %d\n", removes.Load())
	fmt.Printf("No-ops:           %d\n", noops.Load())
	fmt.Printf("Log Entries:      %d\n", len(logs))
	fmt.Printf("Changes Emitted:  %d\n", emitted.Load())
	fmt.Printf("Items Remaining:  %d\n", items)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if int64(len(logs)) == effective {
		fmt.Printf("PASS: %d log entries for %d effective mutations\n", len(logs), effective)
	} else {
		fmt.Printf("FAIL: expected %d log entries, got %d\n", effective, len(logs))
	}

	if emitted.Load() == int64(len(logs)) {
		fmt.Println("PASS: every log entry emitted exactly once")
	} else {
		fmt.Printf("FAIL: expected %d changes, got %d\n", len(logs), emitted.Load())
	}

	bad := 0
	for _, entry := range logs {
		i := strings.LastIndex(entry, " at ")
		if i < 0 {
			bad++
			continue
		}
		if _, err := time.Parse(time.RFC3339, entry[i+len(" at "):]); err != nil {
			bad++
		}
	}
	if bad == 0 {
		fmt.Println("PASS: all timestamps parse as RFC3339")
	} else {
		fmt.Printf("FAIL: %d entries with malformed timestamps\n", bad)
	}
}
