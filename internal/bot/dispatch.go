package bot

import "sync"

// dispatcher serializes work per chat. Two near-simultaneous messages
// from one member must not interleave mid-step, while unrelated chats
// should not wait on each other.
type dispatcher struct {
	mu     sync.Mutex
	queues map[int64][]func()
	wg     sync.WaitGroup
}

func newDispatcher() *dispatcher {
	return &dispatcher{queues: make(map[int64][]func())}
}

// submit enqueues fn for the given chat. The first item of a queue
// spawns a drain goroutine; later items ride the same one, preserving
// arrival order.
func (d *dispatcher) submit(chatID int64, fn func()) {
	d.mu.Lock()
	q, running := d.queues[chatID]
	d.queues[chatID] = append(q, fn)
	if !running {
		d.wg.Add(1)
		go d.drain(chatID)
	}
	d.mu.Unlock()
}

func (d *dispatcher) drain(chatID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		q := d.queues[chatID]
		if len(q) == 0 {
			delete(d.queues, chatID)
			d.mu.Unlock()
			return
		}
		fn := q[0]
		d.queues[chatID] = q[1:]
		d.mu.Unlock()
		fn()
	}
}

// wait blocks until every queued handler has finished.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
