package stream

// WaitingSubscribers reports how many subscribers wait for f to resolve.
func WaitingSubscribers[T any](f *Future[T]) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiting)
}
