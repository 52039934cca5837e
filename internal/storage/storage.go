package storage

import (
	"context"
	"io"
)

// Object describes a single upload. ACL is a canned ACL such as
// "public-read"; empty leaves access to the bucket policy.
type Object struct {
	Bucket       string
	Key          string
	Body         io.Reader
	ContentType  string
	CacheControl string
	ACL          string
}

// Service publishes rendered documents to remote object storage.
type Service interface {
	Upload(ctx context.Context, obj Object) (string, error)
}
