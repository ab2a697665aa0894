package trace

type fifoQueue[T any] []T

func newFIFOQueue[T any]() *fifoQueue[T] {
	return &fifoQueue[T]{}
}

func (f *fifoQueue[T]) enqueue(item T) {
	*f = append(*f, item)
}

// return false on the second returned values if queue is empty
func (f *fifoQueue[T]) dequeue() (T, bool) {
	var zero T
	if len(*f) == 0 {
		return zero, false
	}
	first := (*f)[0]
	*f = (*f)[1:]
	return first, true
}

func (f *fifoQueue[T]) size() int {
	return len(*f)
}
