package models

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Websocketクライアントを定義
// 書き込みはmuで直列化し、読み取りはHandleClientのゴルーチンだけが行う。
type Client struct {
	Conn       *websocket.Conn
	RemoteAddr string

	mu       sync.Mutex
	sessions map[string]struct{} // この接続で発行したセッションID
	done     chan struct{}
	once     sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:       conn,
		RemoteAddr: conn.RemoteAddr().String(),
		sessions:   make(map[string]struct{}),
		done:       make(chan struct{}),
	}
}

// WriteJSON sends one message frame.
func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteJSON(v)
}

func (c *Client) WritePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// CloseWith sends a close frame with code and reason, then closes the connection.
func (c *Client) CloseWith(code int, reason string) {
	c.mu.Lock()
	c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	c.mu.Unlock()
	c.Close()
}

// Close is idempotent.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		c.Conn.Close()
	})
}

// Done is closed once the connection has been closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Issue(sessionID string) {
	c.mu.Lock()
	if c.sessions == nil {
		c.sessions = make(map[string]struct{})
	}
	c.sessions[sessionID] = struct{}{}
	c.mu.Unlock()
}

// Owns reports whether sessionID was issued on this connection.
func (c *Client) Owns(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[sessionID]
	return ok
}

// Sessions returns the ids issued on this connection.
func (c *Client) Sessions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	return ids
}

// ClientSet は接続中のクライアント一覧です。
type ClientSet struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewClientSet() *ClientSet {
	return &ClientSet{clients: make(map[*Client]bool)}
}

func (s *ClientSet) Add(c *Client) {
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
}

func (s *ClientSet) Remove(c *Client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

func (s *ClientSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Snapshot returns the current clients. Callers may write to them without
// holding the set's lock.
func (s *ClientSet) Snapshot() []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		out = append(out, c)
	}
	return out
}
