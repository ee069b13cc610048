package objectstore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"

	"github.com/talesai/narration-service/internal/objectstore"
)

// fakeS3 serves just enough of the S3 API for the MinioStore tests:
// bucket creation, object PUT, and object HEAD with a configurable set of
// present keys.
type fakeS3 struct {
	present map[string]bool
	puts    []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/test-bucket/")

	switch r.Method {
	case http.MethodPut:
		if r.URL.Path == "/test-bucket/" || r.URL.Path == "/test-bucket" {
			w.WriteHeader(http.StatusOK) // MakeBucket

			return
		}

		f.puts = append(f.puts, key)
		f.present[key] = true
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if !f.present[key] {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", strconv.Itoa(3))
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newTestStore(t *testing.T, fake *fakeS3) *objectstore.MinioStore {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	endpoint := strings.TrimPrefix(server.URL, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("test-access", "test-secret", ""),
		Secure: false,
	})
	require.NoError(t, err)

	store, err := objectstore.NewMinio(context.Background(), client, "test-bucket", time.Hour)
	require.NoError(t, err)

	return store
}

func TestMinioStore_ExistsDistinguishesNotFound(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{present: map[string]bool{"stories/S1/sections/A/U1.mp3": true}}
	store := newTestStore(t, fake)

	ctx := context.Background()

	exists, err := store.Exists(ctx, "stories/S1/sections/A/U1.mp3")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = store.Exists(ctx, "stories/S1/sections/B/U1.mp3")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestMinioStore_UploadReturnsPresignedURL(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{present: map[string]bool{}}
	store := newTestStore(t, fake)

	url, err := store.Upload(
		context.Background(),
		"stories/S1/sections/B/U1.mp3",
		[]byte("mp3"),
		"audio/mpeg",
	)
	require.NoError(t, err)
	require.Contains(t, url, "/test-bucket/stories/S1/sections/B/U1.mp3")
	require.Contains(t, url, "X-Amz-Signature=")
	require.Equal(t, []string{"stories/S1/sections/B/U1.mp3"}, fake.puts)
}

func TestMinioStore_URLIsResolvableWithoutNetwork(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{present: map[string]bool{}}
	store := newTestStore(t, fake)

	url, err := store.URL(context.Background(), "users/U1/voice-sample.mp3")
	require.NoError(t, err)
	require.Contains(t, url, "/test-bucket/users/U1/voice-sample.mp3")
}
