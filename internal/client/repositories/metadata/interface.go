// Package metadata stores small key/value records that must survive a
// restart of the client: auth tokens and the application handoff id.
package metadata

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyKey is returned for operations on the empty key.
var ErrEmptyKey = errors.New("empty metadata key")

// Repository is a durable key/value store. Get returns (nil, nil) for an
// absent key; Delete of an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// OpError ties a storage failure to the operation and key that hit it.
// Key is empty for whole-table operations.
type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to %s metadata: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s metadata[%s]: %v", e.Op, e.Key, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func checkKey(op, key string) error {
	if key == "" {
		return &OpError{Op: op, Err: ErrEmptyKey}
	}
	return nil
}
