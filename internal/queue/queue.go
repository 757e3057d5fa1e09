// Package queue provides the bounded FIFO that connects the sensor producer
// to the fan consumer.
package queue

import (
	"context"
	"errors"
)

// ErrInvalidCapacity is returned by New when capacity is less than 1.
var ErrInvalidCapacity = errors.New("queue: capacity must be at least 1")

// Queue is a fixed-capacity FIFO with blocking Put and Get.
// It is intended for exactly one producer and one consumer.
type Queue[T any] struct {
	ch chan T
}

// New creates an empty queue holding at most capacity elements.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Queue[T]{ch: make(chan T, capacity)}, nil
}

// Put appends v to the tail, blocking while the queue is full.
// Nothing is dropped: Put returns only once v is enqueued or ctx is done.
func (q *Queue[T]) Put(ctx context.Context, v T) error {
	// Prefer the free slot over an already-cancelled context.
	select {
	case q.ch <- v:
		return nil
	default:
	}

	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get removes and returns the oldest element, blocking while the queue is empty.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	select {
	case v := <-q.ch:
		return v, nil
	default:
	}

	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Len returns the number of buffered elements.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the fixed capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}
