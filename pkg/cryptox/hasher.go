package cryptox

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Hasher runs bcrypt work on a bounded number of goroutines so a burst of
// logins cannot starve the rest of the process. Waiting for a slot honours
// context cancellation.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher returns a Hasher allowing at most concurrency bcrypt operations
// at once. A non-positive concurrency defaults to runtime.NumCPU().
func NewHasher(cost, concurrency int) *Hasher {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Hasher{
		cost: ClampCost(cost),
		sem:  semaphore.NewWeighted(int64(concurrency)),
	}
}

// Cost returns the effective bcrypt cost used for new hashes.
func (h *Hasher) Cost() int { return h.cost }

// Hash hashes password once a worker slot is available.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	var hash string
	err := h.run(ctx, func() error {
		var err error
		hash, err = HashPassword(password, h.cost)
		return err
	})
	return hash, err
}

// Verify compares password against hash once a worker slot is available.
// The error is only ever a context error; a mismatch is reported as false.
func (h *Hasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	var ok bool
	err := h.run(ctx, func() error {
		ok = VerifyPassword(password, hash)
		return nil
	})
	return ok, err
}

func (h *Hasher) run(ctx context.Context, fn func() error) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer h.sem.Release(1)
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The worker keeps its slot until bcrypt returns.
		return ctx.Err()
	}
}
