// Package objstore abstracts the byte storage underneath the ETL: listing,
// reading, and overwriting objects under a root, on the local filesystem or
// on S3.
package objstore

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Backend is the storage collaborator the pipeline reads raw inputs from and
// writes table outputs to. Keys are slash-separated paths relative to the
// backend's root.
type Backend interface {
	// Put writes an object, replacing any previous contents at the key.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads an entire object.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns every key under the prefix, recursively, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// RemoveAll deletes every object under the prefix. Missing prefixes are
	// not an error.
	RemoveAll(ctx context.Context, prefix string) error
}

// Credentials are static object-store credentials sourced from configuration.
// They are passed in at construction; nothing here mutates process
// environment state.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Endpoint        string
}

// Open returns a backend for the given root: an S3 backend for s3://bucket or
// s3://bucket/prefix roots, a local filesystem backend for anything else.
func Open(ctx context.Context, root string, creds Credentials) (Backend, error) {
	if strings.HasPrefix(root, "s3://") {
		return NewS3(ctx, root, creds)
	}
	if root == "" {
		return nil, eris.New("objstore: empty root")
	}
	return NewLocal(root)
}
