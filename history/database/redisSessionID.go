package database

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gomokuserver/models"

	"go.uber.org/zap"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrUnknownSession = errors.New("unknown session")

const (
	sessionPrefix = "session:"
	sessionTTL    = 24 * time.Hour
)

// SessionRegistry holds every session id currently issued by the server.
type SessionRegistry interface {
	Register(ctx context.Context, sessionID, remoteAddr string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
}

// MemorySessions is a process-local SessionRegistry.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]string)}
}

func (m *MemorySessions) Register(_ context.Context, sessionID, remoteAddr string) error {
	m.mu.Lock()
	m.sessions[sessionID] = remoteAddr
	m.mu.Unlock()
	return nil
}

func (m *MemorySessions) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[sessionID]
	return ok, nil
}

func (m *MemorySessions) Revoke(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *MemorySessions) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

// RedisSessions stores sessions as "session:<id>" keys that expire after 24h.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (r *RedisSessions) Register(ctx context.Context, sessionID, remoteAddr string) error {
	// セッション情報をJSON形式でエンコード
	sessionInfo := map[string]interface{}{
		"remoteAddr": remoteAddr,
		"issuedAt":   time.Now().Unix(),
	}
	sessionInfoJSON, err := json.Marshal(sessionInfo)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionPrefix+sessionID, sessionInfoJSON, sessionTTL).Err()
}

func (r *RedisSessions) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, sessionPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *RedisSessions) Revoke(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, sessionPrefix+sessionID).Err()
}

func (r *RedisSessions) Count(ctx context.Context) (int, error) {
	count := 0
	iter := r.rdb.Scan(ctx, 0, sessionPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count, iter.Err()
}

// GenerateAndStoreSessionID issues a new session id on client and registers it.
func GenerateAndStoreSessionID(ctx context.Context, client *models.Client, sessions SessionRegistry, logger *zap.Logger) (string, error) {
	sessionID := uuid.New().String()

	if err := sessions.Register(ctx, sessionID, client.RemoteAddr); err != nil {
		logger.Error("Error storing session", zap.String("remoteAddr", client.RemoteAddr), zap.Error(err))
		return "", err
	}
	client.Issue(sessionID)

	logger.Info("Session issued", zap.String("sessionID", sessionID), zap.String("remoteAddr", client.RemoteAddr))
	return sessionID, nil
}

// ValidateSessionID accepts only ids that were issued on this very connection
// and are still registered.
func ValidateSessionID(ctx context.Context, client *models.Client, sessions SessionRegistry, sessionID string, logger *zap.Logger) error {
	if sessionID == "" || !client.Owns(sessionID) {
		return ErrUnknownSession
	}

	ok, err := sessions.Exists(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to retrieve session info", zap.String("sessionID", sessionID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrUnknownSession
	}
	return nil
}

// RevokeSessions drops every id issued on client.
func RevokeSessions(ctx context.Context, client *models.Client, sessions SessionRegistry, logger *zap.Logger) {
	for _, sessionID := range client.Sessions() {
		if err := sessions.Revoke(ctx, sessionID); err != nil {
			logger.Error("Failed to revoke session", zap.String("sessionID", sessionID), zap.Error(err))
		}
	}
}
