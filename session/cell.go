package session

import "sync"

// Cell is a value that can be watched for changes.
type Cell[T any] struct {
	mu   sync.Mutex
	val  T
	subs map[int]chan T
	next int
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{val: v}
}

func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

// Set stores v and offers it to every subscriber. A subscriber that has not
// consumed the previous value only sees the latest one.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = v
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Subscribe returns a channel receiving values passed to Set, and a func
// that stops delivery and closes the channel.
func (c *Cell[T]) Subscribe() (<-chan T, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = make(map[int]chan T)
	}
	id := c.next
	c.next++
	ch := make(chan T, 1)
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}
