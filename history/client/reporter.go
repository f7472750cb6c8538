package client

import (
	"context"
	"sync"
	"time"

	"gomokuserver/gomoku"

	"go.uber.org/zap"
)

const DefaultSubmitTimeout = 15 * time.Second

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithListener forwards the outcome of every submission.
func WithListener(l Listener) ReporterOption {
	return func(r *Reporter) {
		r.listener = l
	}
}

func WithSubmitTimeout(d time.Duration) ReporterOption {
	return func(r *Reporter) {
		r.timeout = d
	}
}

func WithClientOptions(opts ...Option) ReporterOption {
	return func(r *Reporter) {
		r.clientOpts = append(r.clientOpts, opts...)
	}
}

// Reporter submits finished matches to the history server. Each Report runs
// on its own goroutine with its own session; failures are only logged.
type Reporter struct {
	url        string
	logger     *zap.Logger
	listener   Listener
	timeout    time.Duration
	clientOpts []Option
	wg         sync.WaitGroup
}

func NewReporter(url string, logger *zap.Logger, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		url:      url,
		logger:   logger,
		listener: ListenerFuncs{},
		timeout:  DefaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report implements gomoku.ResultReporter.
func (r *Reporter) Report(result gomoku.MatchResult) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.submit(result); err != nil {
			r.logger.Warn("Match result not submitted",
				zap.String("playerOne", result.PlayerOneName),
				zap.String("playerTwo", result.PlayerTwoName),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every pending submission has finished.
func (r *Reporter) Wait() {
	r.wg.Wait()
}

func (r *Reporter) submit(result gomoku.MatchResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	acks := make(chan bool, 1)
	ack := func(saved bool) {
		select {
		case acks <- saved:
		default:
		}
	}
	listener := ListenerFuncs{
		HistorySaved: func() {
			ack(true)
			r.listener.OnHistorySaved()
		},
		HistoryNotSaved: func() {
			ack(false)
			r.listener.OnHistoryNotSaved()
		},
	}

	c, err := Dial(ctx, r.url, listener, r.logger, r.clientOpts...)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.WaitReady(ctx); err != nil {
		return err
	}
	if err := c.PushMatchResult(result.PlayerOneName, result.PlayerTwoName, result.PlayerOneWinner, result.PlayerTwoWinner); err != nil {
		return err
	}

	select {
	case saved := <-acks:
		r.logger.Info("Match result submitted", zap.Bool("saved", saved))
	case <-c.Done():
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	return c.CloseSession(ctx)
}
