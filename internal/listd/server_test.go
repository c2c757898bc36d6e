package listd

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/copylist/internal/copylist"
)

func newTestServer(t *testing.T, metrics bool) (*Server, *httptest.Server, *copylist.Client) {
	t.Helper()
	srv := NewServer(Options{EnableMetrics: metrics})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.hub.Close()
		ts.Close()
	})
	client, err := copylist.NewClient(ts.URL)
	require.NoError(t, err)
	return srv, ts, client
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestServer_ListAddRemoveClear(t *testing.T) {
	_, _, client := newTestServer(t, false)
	ctx := testContext(t)

	paths, err := client.GetCopyList(ctx)
	require.NoError(t, err)
	assert.Empty(t, paths)

	for _, p := range []string{"/a", "/b", "/a", "/c"} {
		require.NoError(t, client.AddToCopyList(ctx, p))
	}
	paths, err = client.GetCopyList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b", "/a", "/c"}, paths)

	require.NoError(t, client.RemoveFromCopyList(ctx, "/a"))
	paths, err = client.GetCopyList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/b", "/c"}, paths)

	require.NoError(t, client.RemoveFromCopyList(ctx, "/absent"), "absent path is a no-op")
	require.NoError(t, client.RemoveFromCopyList(ctx, "   "), "blank path is never present, so removing it is a no-op")
	paths, err = client.GetCopyList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/b", "/c"}, paths)

	require.NoError(t, client.ClearCopyList(ctx))
	paths, err = client.GetCopyList(ctx)
	require.NoError(t, err)
	assert.Empty(t, paths)

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Zero(t, health.Entries)
}

func TestServer_RejectsBadBodies(t *testing.T) {
	_, ts, client := newTestServer(t, false)
	ctx := testContext(t)

	assert.Error(t, client.AddToCopyList(ctx, "   "))

	resp, err := http.Post(ts.URL+"/api/copylist/remove", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	_, ts, _ := newTestServer(t, false)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/copylist", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_RequestIDHeader(t *testing.T) {
	_, ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_MetricsEndpoint(t *testing.T) {
	_, ts, client := newTestServer(t, true)
	ctx := testContext(t)
	require.NoError(t, client.AddToCopyList(ctx, "/a"))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "copylist_mutations_total")
	assert.Contains(t, string(body), "copylist_entries")
}

func TestServer_MetricsDisabled(t *testing.T) {
	_, ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_NotifiesSubscribersOnMutation(t *testing.T) {
	srv, _, client := newTestServer(t, false)
	ctx := testContext(t)

	notified := make(chan struct{}, 8)
	sub, err := client.Subscribe(ctx, copylist.TopicListUpdated, func() {
		notified <- struct{}{}
	})
	require.NoError(t, err)
	defer sub.Cancel()

	require.Eventually(t, func() bool { return srv.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, client.AddToCopyList(ctx, "/a"))
	require.NoError(t, client.RemoveFromCopyList(ctx, "/a"))
	require.NoError(t, client.ClearCopyList(ctx))

	for i := 0; i < 3; i++ {
		select {
		case <-notified:
		case <-time.After(2 * time.Second):
			t.Fatalf("notification %d not delivered", i)
		}
	}
}

func TestServer_SubscriptionEndsOnCancel(t *testing.T) {
	srv, _, client := newTestServer(t, false)
	ctx := testContext(t)

	sub, err := client.Subscribe(ctx, copylist.TopicListUpdated, func() {})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	sub.Cancel()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
	require.Eventually(t, func() bool { return srv.hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_SubscriptionEndsOnShutdown(t *testing.T) {
	srv, _, client := newTestServer(t, false)
	ctx := testContext(t)

	sub, err := client.Subscribe(ctx, copylist.TopicListUpdated, func() {})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.hub.Close()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not observe shutdown")
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	client, err := copylist.NewClient(ln.Addr().String())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, err := client.Health(context.Background())
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestSameHostOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:7488/api/events", nil)
	assert.True(t, sameHostOrigin(r))

	r.Header.Set("Origin", "http://127.0.0.1:7488")
	assert.True(t, sameHostOrigin(r))

	r.Header.Set("Origin", "http://evil.example")
	assert.False(t, sameHostOrigin(r))
}
