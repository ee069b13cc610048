package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsObjectStore implements the core.ObjectStore interface using NATS
// JetStream. It is used in development and tests where no S3-compatible
// store is available; URLs use the nats://bucket/path scheme and are
// playable only by clients of the same NATS deployment.
type NatsObjectStore struct {
	jetstreamContext nats.JetStreamContext
	bucket           string
	store            nats.ObjectStore
}

// NewNats creates and initializes a new NatsObjectStore.
func NewNats(jetstreamContext nats.JetStreamContext, bucketName string) (*NatsObjectStore, error) {
	// Use a "create-first" approach.
	store, err := jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Narration artifacts for the %s bucket.", bucketName),
		Storage:     nats.FileStorage,
		Replicas:    1,
	})

	// If the bucket already exists, bind to it.
	if err != nil {
		if errors.Is(err, jetstream.ErrBucketExists) {
			store, err = jetstreamContext.ObjectStore(bucketName)
			if err != nil {
				return nil, fmt.Errorf("failed to bind to existing object store bucket '%s': %w", bucketName, err)
			}
		} else {
			// For any other error, fail.
			return nil, fmt.Errorf("failed to create object store bucket '%s': %w", bucketName, err)
		}
	}

	return &NatsObjectStore{
		jetstreamContext: jetstreamContext,
		bucket:           bucketName,
		store:            store,
	}, nil
}

// Upload saves an object to the NATS object store and returns its URL.
func (n *NatsObjectStore) Upload(
	ctx context.Context,
	path string,
	data []byte,
	contentType string,
) (string, error) {
	reader := bytes.NewReader(data)

	_, err := n.store.Put(&nats.ObjectMeta{
		Name:        path,
		Description: contentType,
	}, reader)
	if err != nil {
		return "", fmt.Errorf("failed to put object '%s' to bucket '%s': %w", path, n.bucket, err)
	}

	return n.URL(ctx, path)
}

// URL resolves the nats:// URL of an object.
func (n *NatsObjectStore) URL(_ context.Context, path string) (string, error) {
	return fmt.Sprintf("nats://%s/%s", n.bucket, path), nil
}

// Exists reports whether an object is present at path. A missing object
// is (false, nil); any other failure is returned as an error.
func (n *NatsObjectStore) Exists(_ context.Context, path string) (bool, error) {
	_, err := n.store.GetInfo(path)
	if err != nil {
		if errors.Is(err, nats.ErrObjectNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("failed to stat object '%s' in bucket '%s': %w", path, n.bucket, err)
	}

	return true, nil
}
