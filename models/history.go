package models

import (
	"gorm.io/gorm"
)

// MatchHistory モデルの定義。受信した対戦結果を1行ずつ保存します。
type MatchHistory struct {
	gorm.Model
	PlayerOneName   string `gorm:"not null"`
	PlayerTwoName   string `gorm:"not null"`
	PlayerOneWinner bool   `gorm:"not null;default:false"`
	PlayerTwoWinner bool   `gorm:"not null;default:false"`
}

func NewMatchHistory(entry HistoryEntry) MatchHistory {
	return MatchHistory{
		PlayerOneName:   entry.PlayerOneName,
		PlayerTwoName:   entry.PlayerTwoName,
		PlayerOneWinner: entry.PlayerOneWinner,
		PlayerTwoWinner: entry.PlayerTwoWinner,
	}
}

func (h MatchHistory) Entry() HistoryEntry {
	return HistoryEntry{
		PlayerOneName:   h.PlayerOneName,
		PlayerTwoName:   h.PlayerTwoName,
		PlayerOneWinner: h.PlayerOneWinner,
		PlayerTwoWinner: h.PlayerTwoWinner,
	}
}
