package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveAPIRequest(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	r.ObserveAPIRequest("channel.list", 200, 10*time.Millisecond)
	r.ObserveAPIRequest("channel.list", 200, 10*time.Millisecond)
	r.ObserveAPIRequest("channel.list", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.apiRequests.WithLabelValues("channel.list", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.apiRequests.WithLabelValues("channel.list", "transport_error")))
}

func TestRecorder_ObserveTokenOperation(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	r.ObserveTokenOperation(OperationRefresh, nil)
	r.ObserveTokenOperation(OperationRefresh, errors.New("invalid_grant"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.tokenOperations.WithLabelValues(OperationRefresh, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tokenOperations.WithLabelValues(OperationRefresh, "failure")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveAPIRequest("workspace.list", 500, time.Second)
		r.ObserveTokenOperation(OperationExchange, nil)
	})
}

func TestRecorder_Handler(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	r.ObserveTokenOperation(OperationExchange, nil)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "swit_oauth_token_operations_total")
}
