// internal/model/card.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// スケジューリング状態の初期値
const (
	DefaultEasiness = 2.5
	MinEasiness     = 1.3
	MinInterval     = 1
	MaxMastery      = 100
)

// Card はフラッシュカード1枚と、そのスケジューリング状態を表します
type Card struct {
	CardID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"card_id"`
	DeckID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	Front        string     `gorm:"not null" json:"front"` // 表面（問題）
	Back         string     `gorm:"not null" json:"back"`  // 裏面（答え）
	Easiness     float64    `gorm:"not null;default:2.5" json:"easiness"`
	Interval     int        `gorm:"not null;default:1" json:"interval"` // 次回復習までの日数
	Repetitions  int        `gorm:"not null;default:0" json:"repetitions"`
	Mastery      int        `gorm:"not null;default:0" json:"mastery"` // 0-100
	NextReview   time.Time  `gorm:"not null;index" json:"next_review"`
	LastReviewed *time.Time `json:"last_reviewed,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Card) TableName() string {
	return "cards"
}

// Valid はデータモデルの不変条件を満たしているかを返します
func (c *Card) Valid() bool {
	return c.Front != "" && c.Back != "" &&
		c.Easiness >= MinEasiness &&
		c.Interval >= MinInterval &&
		c.Repetitions >= 0 &&
		c.Mastery >= 0 && c.Mastery <= MaxMastery
}

// Clamp はスケジューリング状態を有効な範囲に丸めます。
// スナップショット読み込み時の復旧用で、front/back の欠損は直せないため
// 呼び出し元が Valid と組み合わせて判断します。
func (c *Card) Clamp() {
	if c.Easiness == 0 {
		c.Easiness = DefaultEasiness
	}
	if c.Easiness < MinEasiness {
		c.Easiness = MinEasiness
	}
	if c.Interval < MinInterval {
		c.Interval = MinInterval
	}
	if c.Repetitions < 0 {
		c.Repetitions = 0
	}
	if c.Mastery < 0 {
		c.Mastery = 0
	}
	if c.Mastery > MaxMastery {
		c.Mastery = MaxMastery
	}
}

// カード1枚分の入力DTO (front/back のペア)
type CardPair struct {
	Front string `json:"front" validate:"required,min=1"`
	Back  string `json:"back" validate:"required,min=1"`
}
