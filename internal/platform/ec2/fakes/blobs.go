package fakes

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/imamik/vpcctl/internal/platform/s3"
)

// Blobs simulates bucket storage.
type Blobs struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	calls   map[string]int
	fail    map[string]error
}

type bucket struct {
	region  string
	objects map[string]object
}

type object struct {
	data      []byte
	encrypted bool
}

// NewBlobs creates an empty store.
func NewBlobs() *Blobs {
	return &Blobs{
		buckets: make(map[string]*bucket),
		calls:   make(map[string]int),
		fail:    make(map[string]error),
	}
}

// FailOn makes every subsequent call of method return err.
func (b *Blobs) FailOn(method string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[method] = err
}

// Calls returns how many times method was invoked.
func (b *Blobs) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

func (b *Blobs) enter(method string) error {
	b.calls[method]++
	return b.fail[method]
}

// EnsureBucket creates the bucket if missing.
func (b *Blobs) EnsureBucket(_ context.Context, name, region string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("EnsureBucket"); err != nil {
		return err
	}
	if _, ok := b.buckets[name]; !ok {
		b.buckets[name] = &bucket{region: region, objects: make(map[string]object)}
	}
	return nil
}

// PutObject stores an object, always encrypted at rest.
func (b *Blobs) PutObject(_ context.Context, bucketName, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("PutObject"); err != nil {
		return err
	}
	bk, ok := b.buckets[bucketName]
	if !ok {
		return fmt.Errorf("failed to put object %s in bucket %s: NoSuchBucket", key, bucketName)
	}
	bk.objects[key] = object{data: slices.Clone(data), encrypted: true}
	return nil
}

// GetObject returns a stored object or s3.ErrObjectNotFound.
func (b *Blobs) GetObject(_ context.Context, bucketName, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter("GetObject"); err != nil {
		return nil, err
	}
	bk, ok := b.buckets[bucketName]
	if !ok {
		return nil, fmt.Errorf("%w: s3://%s/%s", s3.ErrObjectNotFound, bucketName, key)
	}
	obj, ok := bk.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: s3://%s/%s", s3.ErrObjectNotFound, bucketName, key)
	}
	return slices.Clone(obj.data), nil
}

// Object returns a stored object and whether it was written encrypted.
func (b *Blobs) Object(bucketName, key string) (data []byte, encrypted, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, found := b.buckets[bucketName]
	if !found {
		return nil, false, false
	}
	obj, found := bk.objects[key]
	return slices.Clone(obj.data), obj.encrypted, found
}

// BucketRegion returns the region a bucket was created in.
func (b *Blobs) BucketRegion(name string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.buckets[name]
	if !ok {
		return "", false
	}
	return bk.region, true
}

// DeleteObject removes an object to stage "backup lost" scenarios.
func (b *Blobs) DeleteObject(bucketName, key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bk, ok := b.buckets[bucketName]; ok {
		delete(bk.objects, key)
	}
}
