package database

import (
	"context"
	"sync"

	"gomokuserver/models"

	"gorm.io/gorm"
)

// HistoryStore keeps submitted match results in submission order.
type HistoryStore interface {
	Add(ctx context.Context, entry models.HistoryEntry) error
	All(ctx context.Context) ([]models.HistoryEntry, error)
	Count(ctx context.Context) (int64, error)
}

// MemoryHistory is a process-local HistoryStore.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (m *MemoryHistory) Add(_ context.Context, entry models.HistoryEntry) error {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

// All returns a copy.
func (m *MemoryHistory) All(context.Context) ([]models.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryHistory) Count(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries)), nil
}

// GormHistory persists results in the match_histories table.
type GormHistory struct {
	db *gorm.DB
}

func NewGormHistory(db *gorm.DB) *GormHistory {
	return &GormHistory{db: db}
}

func (g *GormHistory) Add(ctx context.Context, entry models.HistoryEntry) error {
	record := models.NewMatchHistory(entry)
	return g.db.WithContext(ctx).Create(&record).Error
}

func (g *GormHistory) All(ctx context.Context) ([]models.HistoryEntry, error) {
	var records []models.MatchHistory
	if err := g.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]models.HistoryEntry, len(records))
	for i, record := range records {
		out[i] = record.Entry()
	}
	return out, nil
}

func (g *GormHistory) Count(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.MatchHistory{}).Count(&count).Error
	return count, err
}
