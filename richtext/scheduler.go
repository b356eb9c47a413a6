package richtext

import "sync"

// Scheduler 由宿主提供，在下一帧（tick）执行任务。引擎每个 tick 最多投递一个任务。
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a plain function to Scheduler.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Schedule(task func()) { f(task) }

// Immediate runs every task synchronously, so each mutation triggers its own pass.
var Immediate Scheduler = SchedulerFunc(func(task func()) { task() })

// FrameScheduler 是自带的帧调度器：Schedule 只入队，Tick 执行在本次 Tick 之前入队的任务。
// 任务执行期间新入队的任务留到下一次 Tick。
type FrameScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func (s *FrameScheduler) Schedule(task func()) {
	s.mu.Lock()
	s.queue = append(s.queue, task)
	s.mu.Unlock()
}

// Tick runs the queued tasks and returns how many ran.
func (s *FrameScheduler) Tick() int {
	s.mu.Lock()
	tasks := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

// Pending returns the number of queued tasks.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
