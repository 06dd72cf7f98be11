package workers

import (
	"errors"
	"log"
	"sync"
)

// TaskType constants
const (
	TaskSave      = "save"
	TaskApplyCrop = "apply_crop"
)

var (
	ErrQueueFull      = errors.New("render queue full")
	ErrSessionBusy    = errors.New("a render for this session is already queued")
	ErrPoolShutDown   = errors.New("render pool is shut down")
	errJobInterrupted = errors.New("render pool stopped before job ran")
)

// RenderJob is a unit of CPU-heavy compositing work tied to one editing
// session. Run is executed on a pool worker; the error is delivered back
// to the queuing goroutine.
type RenderJob struct {
	SessionID string
	TaskType  string
	Run       func() error
	done      chan error
}

// RenderPool serializes expensive renders onto a bounded set of workers so
// that concurrent saves cannot exhaust memory. At most one job per session
// may be queued at a time.
type RenderPool struct {
	JobQueue chan *RenderJob
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
	stopped  bool
}

func NewRenderPool(queueSize, numWorkers int) *RenderPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	pool := &RenderPool{
		JobQueue: make(chan *RenderJob, queueSize),
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}
	pool.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go pool.worker(i)
	}
	log.Printf("Started %d render worker(s) with queue size %d", numWorkers, queueSize)
	return pool
}

func (rp *RenderPool) worker(id int) {
	defer rp.Wg.Done()

	log.Printf("Render worker %d started", id)
	for {
		select {
		case job, ok := <-rp.JobQueue:
			if !ok {
				log.Printf("Render worker %d stopping: Job queue closed", id)
				return
			}

			log.Printf("Worker %d: Received job type '%s' for session %s", id, job.TaskType, job.SessionID)
			err := job.Run()
			if err != nil {
				log.Printf("Worker %d: ERROR running %s for session %s: %v", id, job.TaskType, job.SessionID, err)
			}

			rp.Mutex.Lock()
			delete(rp.Pending, job.SessionID)
			rp.Mutex.Unlock()

			job.done <- err

		case <-rp.StopChan:
			log.Printf("Render worker %d stopping: Stop signal received", id)
			return
		}
	}
}

// Do queues a render job for the given session and blocks until a worker
// has run it, returning the job's error. A second job for a session that
// already has one queued is rejected with ErrSessionBusy.
func (rp *RenderPool) Do(sessionID, taskType string, run func() error) error {
	rp.Mutex.Lock()
	if rp.stopped {
		rp.Mutex.Unlock()
		return ErrPoolShutDown
	}
	if rp.Pending[sessionID] {
		rp.Mutex.Unlock()
		return ErrSessionBusy
	}
	rp.Pending[sessionID] = true
	rp.Mutex.Unlock()

	job := &RenderJob{
		SessionID: sessionID,
		TaskType:  taskType,
		Run:       run,
		done:      make(chan error, 1),
	}

	select {
	case rp.JobQueue <- job:
		log.Printf("Queued task '%s' for session %s", taskType, sessionID)
	default:
		log.Printf("WARNING: Render job queue full. Failed to queue task '%s' for session %s", taskType, sessionID)
		rp.Mutex.Lock()
		delete(rp.Pending, sessionID)
		rp.Mutex.Unlock()
		return ErrQueueFull
	}

	select {
	case err := <-job.done:
		return err
	case <-rp.StopChan:
		return errJobInterrupted
	}
}

func (rp *RenderPool) Stop() {
	log.Println("Stopping render pool workers...")
	rp.Mutex.Lock()
	rp.stopped = true
	rp.Mutex.Unlock()
	close(rp.StopChan)
	rp.Wg.Wait()
	log.Println("All render pool workers stopped")
}
