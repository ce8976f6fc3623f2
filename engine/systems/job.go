package systems

import (
	"sync"

	"github.com/Tinaynox/maze-sub011/engine/core"
)

/**
 * @brief A unit of work for the job system. OnStart runs on a worker and
 * returns the value handed to OnComplete. OnFailure receives the error
 * instead. OnCompletionCallback runs last in both cases.
 */
type JobTask struct {
	Name                 string
	InputParams          interface{}
	OnStart              func(params interface{}) (interface{}, error)
	OnComplete           func(result interface{})
	OnFailure            func(err error)
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mutex    sync.RWMutex
	isClosed bool
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, core.ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, core.ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) {
	if job.OnCompletionCallback != nil {
		defer job.OnCompletionCallback()
	}

	result, err := job.OnStart(job.InputParams)
	if err != nil {
		core.LogError("job '%s' failed: %s", job.Name, err.Error())
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete(result)
	}
}

/**
 * @brief Shuts the job system down. Queued jobs are drained first.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.isClosed {
		js.mutex.Unlock()
		return nil
	}
	js.isClosed = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

// AddWorkNonBlocking queues the job from a new goroutine and returns immediately.
// A job that cannot be queued still gets its failure and completion callbacks.
func (js *JobSystem) AddWorkNonBlocking(jt JobTask) {
	go func() {
		if err := js.Submit(jt); err != nil {
			core.LogWarn("job '%s' dropped: %s", jt.Name, err.Error())
			if jt.OnFailure != nil {
				jt.OnFailure(err)
			}
			if jt.OnCompletionCallback != nil {
				jt.OnCompletionCallback()
			}
		}
	}()
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.isClosed {
		return core.ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}
