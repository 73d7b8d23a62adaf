package stt

import (
	"context"

	"golang.org/x/sync/semaphore"
)

type serialized struct {
	engine Engine
	sem    *semaphore.Weighted
}

// Serialize bounds the number of concurrent Transcribe calls on engine to n (at least 1).
// Callers waiting for a slot give up when their context ends.
func Serialize(engine Engine, n int) Engine {
	if n < 1 {
		n = 1
	}
	return &serialized{engine: engine, sem: semaphore.NewWeighted(int64(n))}
}

func (s *serialized) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	return s.engine.Transcribe(ctx, audioPath)
}

func (s *serialized) Name() string { return s.engine.Name() }
