package stream

import "sync"

// drainer serialises delivery with a queue-drain loop: work is queued under a
// single mutex and run in FIFO order by whichever caller is not already draining.
// Work enqueued from inside running work, or from another goroutine while a
// drain is in progress, is run by the draining caller after the current item.
type drainer struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

// enqueue adds fn and reports whether the caller became responsible for draining.
func (d *drainer) enqueue(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, fn)
	if d.running {
		return false
	}
	d.running = true
	return true
}

func (d *drainer) drain() {
	defer func() {
		if r := recover(); r != nil {
			d.mu.Lock()
			d.queue = nil
			d.running = false
			d.mu.Unlock()
			panic(r)
		}
	}()

	d.mu.Lock()
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()
		next()
		d.mu.Lock()
	}
	d.running = false
	d.mu.Unlock()
}

// run enqueues fn and drains if nobody else is. It reports whether fn was deferred
// to another caller's drain loop.
func (d *drainer) run(fn func()) (deferred bool) {
	if !d.enqueue(fn) {
		return true
	}
	d.drain()
	return false
}
