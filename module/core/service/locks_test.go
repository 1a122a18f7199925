package service

import (
	"sync"
	"testing"
	"time"
)

func TestVehicleLocks_SerializesSameVehicle(t *testing.T) {
	locks := NewVehicleLocks()

	const n = 100
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("B1234XYZ")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != n {
		t.Errorf("expected %d increments, got %d", n, counter)
	}
}

func TestVehicleLocks_EvictsReleasedEntries(t *testing.T) {
	locks := NewVehicleLocks()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("B1234XYZ")
			unlock()
		}()
	}
	wg.Wait()

	locks.mu.Lock()
	remaining := len(locks.entries)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Errorf("expected no entries after the last release, got %d", remaining)
	}
}

func TestVehicleLocks_IndependentVehicles(t *testing.T) {
	locks := NewVehicleLocks()

	unlockA := locks.lock("A")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.lock("B")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("locking a different vehicle must not block")
	}
}
