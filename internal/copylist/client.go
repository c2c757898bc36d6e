package copylist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client talks to the copylistd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	dialer    *websocket.Dialer
	userAgent string

	// readTimeout bounds the silence tolerated on a subscription. The
	// daemon pings every 30s, so a dead peer is noticed within this window.
	readTimeout time.Duration
}

const (
	defaultAPIBind   = "127.0.0.1:7488"
	defaultUserAgent = "copylist/0.1"
	requestTimeout   = 5 * time.Second
	handshakeTimeout = 3 * time.Second
	readTimeout      = 75 * time.Second
	pongWait         = time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		userAgent:   defaultUserAgent,
		readTimeout: readTimeout,
	}, nil
}

// GetCopyList retrieves the current list in daemon order.
func (c *Client) GetCopyList(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/copylist", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Paths == nil {
		return []string{}, nil
	}
	return payload.Paths, nil
}

// AddToCopyList appends path to the end of the list.
func (c *Client) AddToCopyList(ctx context.Context, path string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/copylist", PathRequest{Path: path}, nil)
}

// RemoveFromCopyList removes every entry equal to path. Absent paths are not an error.
func (c *Client) RemoveFromCopyList(ctx context.Context, path string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/copylist/remove", PathRequest{Path: path}, nil)
}

// ClearCopyList empties the list.
func (c *Client) ClearCopyList(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/copylist/clear", nil, nil)
}

// Health reports whether the daemon is reachable.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	if c == nil {
		return HealthResponse{}, fmt.Errorf("client is nil")
	}
	var payload HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &payload); err != nil {
		return HealthResponse{}, err
	}
	return payload, nil
}

// Subscribe opens a websocket to /api/events and invokes handler for every
// notification on topic. ctx bounds the handshake and the lifetime of the
// subscription.
func (c *Client) Subscribe(ctx context.Context, topic string, handler func()) (Subscription, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler is nil")
	}
	wsURL := c.eventsURL(topic)
	header := http.Header{}
	header.Set("User-Agent", c.userAgent)

	conn, resp, err := c.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("subscribe %s: status %d: %w", topic, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	sub := &wsSubscription{conn: conn, done: make(chan struct{}), timeout: c.readTimeout}
	sub.extend()
	conn.SetPingHandler(func(data string) error {
		sub.extend()
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(pongWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})
	conn.SetPongHandler(func(string) error {
		sub.extend()
		return nil
	})
	go sub.read(topic, handler)
	go func() {
		select {
		case <-ctx.Done():
			sub.Cancel()
		case <-sub.done:
		}
	}()
	return sub, nil
}

func (c *Client) eventsURL(topic string) string {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/events"
	values := url.Values{}
	values.Set("topic", topic)
	u.RawQuery = values.Encode()
	return u.String()
}

type wsSubscription struct {
	conn     *websocket.Conn
	done     chan struct{}
	timeout  time.Duration
	stopOnce sync.Once
}

// extend pushes the read deadline out; any frame from the daemon counts as
// proof of life.
func (s *wsSubscription) extend() {
	if s.timeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.timeout))
	}
}

func (s *wsSubscription) read(topic string, handler func()) {
	defer close(s.done)
	for {
		var note Notification
		if err := s.conn.ReadJSON(&note); err != nil {
			_ = s.conn.Close()
			return
		}
		s.extend()
		if note.Topic != topic {
			continue
		}
		handler()
	}
}

func (s *wsSubscription) Cancel() {
	s.stopOnce.Do(func() {
		deadline := time.Now().Add(time.Second)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = s.conn.Close()
	})
}

func (s *wsSubscription) Done() <-chan struct{} {
	return s.done
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s %s returned status %d", method, rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
