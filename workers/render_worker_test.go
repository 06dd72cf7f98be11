package workers

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRenderPoolRunsJobs(t *testing.T) {
	pool := NewRenderPool(4, 2)
	defer pool.Stop()

	var mu sync.Mutex
	ran := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		id := i
		go func() {
			defer wg.Done()
			err := pool.Do(string(rune('a'+id)), TaskSave, func() error {
				mu.Lock()
				ran++
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
			}
		}()
	}
	wg.Wait()

	if ran != 8 {
		t.Errorf("ran %d jobs, want 8", ran)
	}
}

func TestRenderPoolReturnsJobError(t *testing.T) {
	pool := NewRenderPool(1, 1)
	defer pool.Stop()

	want := errors.New("render exploded")
	err := pool.Do("session", TaskApplyCrop, func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("Do returned %v, want %v", err, want)
	}

	// the session slot is free again after a failed job
	if err := pool.Do("session", TaskApplyCrop, func() error { return nil }); err != nil {
		t.Errorf("Do after failure: %v", err)
	}
}

func TestRenderPoolRejectsDuplicateSession(t *testing.T) {
	pool := NewRenderPool(2, 1)
	defer pool.Stop()

	release := make(chan struct{})
	started := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- pool.Do("busy", TaskSave, func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	if err := pool.Do("busy", TaskSave, func() error { return nil }); !errors.Is(err, ErrSessionBusy) {
		t.Errorf("duplicate Do: %v, want ErrSessionBusy", err)
	}

	// a different session is still accepted while the single worker is
	// held by the busy job; it queues and runs once the worker frees up
	otherDone := make(chan error, 1)
	go func() {
		otherDone <- pool.Do("other", TaskSave, func() error { return nil })
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		pool.Mutex.Lock()
		tracked := pool.Pending["other"]
		pool.Mutex.Unlock()
		if tracked {
			break
		}
		time.Sleep(time.Millisecond)
	}
	pool.Mutex.Lock()
	tracked := pool.Pending["other"]
	pool.Mutex.Unlock()
	if !tracked {
		t.Fatal("second session was not accepted while the worker was busy")
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("blocked Do: %v", err)
	}
	if err := <-otherDone; err != nil {
		t.Errorf("Do for another session: %v", err)
	}
}

func TestRenderPoolStopRejectsNewJobs(t *testing.T) {
	pool := NewRenderPool(1, 1)
	pool.Stop()

	err := pool.Do("session", TaskSave, func() error { return nil })
	if !errors.Is(err, ErrPoolShutDown) {
		t.Errorf("Do after Stop: %v, want ErrPoolShutDown", err)
	}
}

func TestRenderPoolQueueFull(t *testing.T) {
	pool := NewRenderPool(1, 1)
	defer pool.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	var startOnce sync.Once

	var wg sync.WaitGroup
	results := make(chan error, 2)
	// first job occupies the worker, second fills the queue
	for _, id := range []string{"one", "two"} {
		wg.Add(1)
		sid := id
		go func() {
			defer wg.Done()
			results <- pool.Do(sid, TaskSave, func() error {
				startOnce.Do(func() { close(started) })
				<-release
				return nil
			})
		}()
	}

	<-started
	// give the second job time to land in the queue
	deadline := time.Now().Add(time.Second)
	for len(pool.JobQueue) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if err := pool.Do("three", TaskSave, func() error { return nil }); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Do with a full queue: %v, want ErrQueueFull", err)
	}

	close(release)
	wg.Wait()
}
