package s3_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	fis3 "github.com/fwojciec/fidata/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPut struct {
	method      string
	path        string
	contentType string
	body        string
}

func newTestPublisher(t *testing.T, status int) (*fis3.Publisher, func() []recordedPut) {
	t.Helper()

	var mu sync.Mutex
	var puts []recordedPut
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		puts = append(puts, recordedPut{r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:                     "us-east-1",
		BaseEndpoint:               aws.String(server.URL),
		UsePathStyle:               true,
		Credentials:                aws.AnonymousCredentials{},
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		RetryMaxAttempts:           1,
	})

	return fis3.NewPublisherWithClient(client, "datasets", "fastiron/latest"), func() []recordedPut {
		mu.Lock()
		defer mu.Unlock()
		return puts
	}
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	t.Run("puts object under prefix", func(t *testing.T) {
		t.Parallel()

		pub, puts := newTestPublisher(t, http.StatusOK)
		err := pub.Publish(context.Background(), "issues_data.json", []byte(`[{"id":"FI-1"}]`))
		require.NoError(t, err)

		got := puts()
		require.Len(t, got, 1)
		assert.Equal(t, http.MethodPut, got[0].method)
		assert.Equal(t, "/datasets/fastiron/latest/issues_data.json", got[0].path)
		assert.Equal(t, "application/json", got[0].contentType)
		assert.Contains(t, got[0].body, `"FI-1"`)
	})

	t.Run("wraps upload failures", func(t *testing.T) {
		t.Parallel()

		pub, _ := newTestPublisher(t, http.StatusForbidden)
		err := pub.Publish(context.Background(), "issues_data.json", []byte(`[]`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3 put object issues_data.json")
	})
}

func TestPublisher_Key(t *testing.T) {
	t.Parallel()

	pub := fis3.NewPublisherWithClient(nil, "b", "")
	assert.Equal(t, "features_data.json", pub.Key("features_data.json"))

	pub = fis3.NewPublisherWithClient(nil, "b", "site/")
	assert.Equal(t, "site/features_data.json", pub.Key("features_data.json"))
}

func TestNewPublisher_RequiresBucket(t *testing.T) {
	t.Parallel()

	_, err := fis3.NewPublisher(context.Background(), "", "", "us-east-1", "")
	require.Error(t, err)
}
