package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gomokuserver/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	ErrNotReady         = errors.New("session not ready")
	ErrGoodbyeTimeout   = errors.New("no goodbye from server")
	ErrConnectionClosed = errors.New("connection closed")
)

// errGoodbye ends the read loop after GoodbyeClient.
var errGoodbye = errors.New("goodbye received")

const (
	DefaultGoodbyeTimeout = 5 * time.Second
	writeWait             = 10 * time.Second
)

// Listener receives server responses. Callbacks run on the read goroutine and
// must not block.
type Listener interface {
	OnPingResponse(rtt time.Duration)
	OnHistorySaved()
	OnHistoryNotSaved()
	OnHistoryAll(entries []models.HistoryEntry)
}

// ListenerFuncs is a Listener built from optional callbacks.
type ListenerFuncs struct {
	PingResponse    func(rtt time.Duration)
	HistorySaved    func()
	HistoryNotSaved func()
	HistoryAll      func(entries []models.HistoryEntry)
}

func (l ListenerFuncs) OnPingResponse(rtt time.Duration) {
	if l.PingResponse != nil {
		l.PingResponse(rtt)
	}
}

func (l ListenerFuncs) OnHistorySaved() {
	if l.HistorySaved != nil {
		l.HistorySaved()
	}
}

func (l ListenerFuncs) OnHistoryNotSaved() {
	if l.HistoryNotSaved != nil {
		l.HistoryNotSaved()
	}
}

func (l ListenerFuncs) OnHistoryAll(entries []models.HistoryEntry) {
	if l.HistoryAll != nil {
		l.HistoryAll(entries)
	}
}

// Option configures a Client.
type Option func(*Client)

func WithGoodbyeTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.goodbyeTimeout = d
	}
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// Client is one session with the history server.
type Client struct {
	conn           *websocket.Conn
	dialer         *websocket.Dialer
	listener       Listener
	logger         *zap.Logger
	goodbyeTimeout time.Duration

	writeMu sync.Mutex
	mu      sync.Mutex
	userID  string

	ready       chan struct{}
	readyOnce   sync.Once
	goodbye     chan struct{}
	goodbyeOnce sync.Once
	done        chan struct{}
	closeOnce   sync.Once
}

// Dial connects to url and sends HelloServer. The session becomes usable once
// WaitReady returns.
func Dial(ctx context.Context, url string, listener Listener, logger *zap.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		dialer:         websocket.DefaultDialer,
		listener:       listener,
		logger:         logger,
		goodbyeTimeout: DefaultGoodbyeTimeout,
		ready:          make(chan struct{}),
		goodbye:        make(chan struct{}),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.listener == nil {
		c.listener = ListenerFuncs{}
	}

	conn, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c.conn = conn

	go c.readLoop()

	if err := c.send(models.NewHelloServer()); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// WaitReady blocks until WelcomeClient arrived.
func (c *Client) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	default:
	}

	select {
	case <-c.ready:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UserID returns the session id issued by the server, empty before WelcomeClient.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Client) session() (string, error) {
	select {
	case <-c.ready:
		return c.UserID(), nil
	default:
		return "", ErrNotReady
	}
}

func (c *Client) RequestPing() error {
	return c.send(models.NewPingRequest(time.Now().UnixMilli()))
}

func (c *Client) PushMatchResult(playerOneName, playerTwoName string, playerOneWinner, playerTwoWinner bool) error {
	userID, err := c.session()
	if err != nil {
		return err
	}
	return c.send(models.NewHistoryPush(userID, models.HistoryEntry{
		PlayerOneName:   playerOneName,
		PlayerTwoName:   playerTwoName,
		PlayerOneWinner: playerOneWinner,
		PlayerTwoWinner: playerTwoWinner,
	}))
}

func (c *Client) RequestHistory() error {
	userID, err := c.session()
	if err != nil {
		return err
	}
	return c.send(models.NewHistoryGetAll(userID))
}

// CloseSession sends GoodbyeServer as the last message and waits for the
// server's GoodbyeClient. The connection is closed in every case.
func (c *Client) CloseSession(ctx context.Context) error {
	defer c.Close()

	userID, err := c.session()
	if err != nil {
		return err
	}
	if err := c.send(models.NewGoodbyeServer(userID)); err != nil {
		return err
	}

	timer := time.NewTimer(c.goodbyeTimeout)
	defer timer.Stop()

	select {
	case <-c.goodbye:
		return nil
	case <-c.done:
		select {
		case <-c.goodbye:
			return nil
		default:
			return ErrConnectionClosed
		}
	case <-timer.C:
		c.logger.Warn("Server did not say goodbye", zap.String("userID", userID), zap.Duration("timeout", c.goodbyeTimeout))
		return ErrGoodbyeTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the connection without a goodbye. It is idempotent.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the read loop has stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) send(v interface{}) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	return nil
}

func (c *Client) readLoop() {
	defer func() {
		close(c.done)
		c.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("History connection lost", zap.Error(err))
			}
			return
		}

		if err := c.handle(message); err != nil {
			if !errors.Is(err, errGoodbye) {
				c.logger.Warn("Closing history connection", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) handle(message []byte) error {
	messageType, err := models.ParseMessageType(message)
	if err != nil {
		return err
	}

	switch messageType {
	case models.TypeWelcomeClient:
		var welcome models.WelcomeClient
		if err := models.DecodeMessage(message, &welcome); err != nil {
			return err
		}
		c.mu.Lock()
		c.userID = welcome.UserID
		c.mu.Unlock()
		c.readyOnce.Do(func() { close(c.ready) })
		c.logger.Info("History session ready", zap.String("userID", welcome.UserID), zap.String("welcome", welcome.WelcomeMessage))

	case models.TypePingResponse:
		var pong models.PingResponse
		if err := models.DecodeMessage(message, &pong); err != nil {
			return err
		}
		rtt := time.Duration(time.Now().UnixMilli()-pong.StartTime) * time.Millisecond
		c.listener.OnPingResponse(rtt)

	case models.TypeHistorySaved:
		c.listener.OnHistorySaved()

	case models.TypeHistoryNotSaved:
		c.listener.OnHistoryNotSaved()

	case models.TypeHistoryAll:
		var all models.HistoryAll
		if err := models.DecodeMessage(message, &all); err != nil {
			return err
		}
		c.listener.OnHistoryAll(all.History)

	case models.TypeGoodbyeClient:
		var goodbye models.GoodbyeClient
		if err := models.DecodeMessage(message, &goodbye); err != nil {
			return err
		}
		c.goodbyeOnce.Do(func() { close(c.goodbye) })
		c.logger.Info("History session ended", zap.String("goodbye", goodbye.GoodbyeMessage))
		return errGoodbye

	default:
		return fmt.Errorf("%w: %s from server", models.ErrUnknownMessageType, messageType)
	}
	return nil
}
