package common

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// NodeErrors holds the error of every node that failed a fan-out call.
type NodeErrors map[string]error

func (e NodeErrors) Failed() int { return len(e) }

// Err joins the node errors ordered by node name, nil when none failed.
func (e NodeErrors) Err() error {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	slices.Sort(names)
	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, fmt.Errorf("%s: %w", name, e[name]))
	}
	return errors.Join(errs...)
}

// EachNode calls fn on every node concurrently and waits for all of them.
func EachNode[C any](ctx context.Context, nodes map[string]C, fn func(ctx context.Context, node C) error) NodeErrors {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed = NodeErrors{}
	)
	for name, node := range nodes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx, node); err != nil {
				mu.Lock()
				failed[name] = err
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return failed
}
