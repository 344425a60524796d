package workflow

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	var k keyedMutex
	var wg sync.WaitGroup
	counter := 0

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(7)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("expected 50, got %d", counter)
	}
	if len(k.locks) != 0 {
		t.Errorf("expected lock entries to be released, got %d", len(k.locks))
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	var k keyedMutex

	unlockA := k.Lock(1)
	done := make(chan struct{})
	go func() {
		unlock := k.Lock(2)
		unlock()
		close(done)
	}()
	<-done
	unlockA()
}
