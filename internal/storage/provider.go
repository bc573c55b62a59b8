// Package storage defines the flat blob store used as the transfer medium
// between the bot process and the detection service: objects are addressed by
// bucket and key, nothing else.
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey indicates a malformed or traversing storage key.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Provider is the put/get contract both processes share.
type Provider interface {
	Put(ctx context.Context, bucket, key string, r io.Reader) error
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
