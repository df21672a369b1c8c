// internal/model/deck.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deck はカードの集合を表します。カードはデッキが排他的に所有します
type Deck struct {
	DeckID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"deck_id"`
	Name        string         `gorm:"not null" json:"name"`
	LastStudied *time.Time     `json:"last_studied,omitempty"` // スケジューラ適用のたびに更新
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除用

	// 関連 (Preload用)。挿入順 = created_at 順で保持する
	Cards []Card `gorm:"foreignKey:DeckID;references:DeckID" json:"cards,omitempty"`
}

func (Deck) TableName() string {
	return "decks"
}

// デッキ作成リクエストDTO。
// Cards か Text のどちらか一方を指定する (Text は "Front | Back" 形式の行)
type PostDeckRequest struct {
	Name  string     `json:"name" validate:"required,min=1,max=100"`
	Cards []CardPair `json:"cards,omitempty" validate:"omitempty,dive"`
	Text  string     `json:"text,omitempty"`
}

// デッキ一覧のレスポンスDTO (カード本体は含めない)
type DeckSummaryResponse struct {
	DeckID      uuid.UUID  `json:"deck_id"`
	Name        string     `json:"name"`
	CardCount   int        `json:"card_count"`
	LastStudied *time.Time `json:"last_studied,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
