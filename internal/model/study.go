// internal/model/study.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Rating はユーザーの自己評価です (0: Hard, 1: Good, 2: Easy)
type Rating int

const (
	RatingHard Rating = iota // 0
	RatingGood               // 1
	RatingEasy               // 2
)

// Valid は評価値が {0,1,2} の範囲内かを返します
func (r Rating) Valid() bool {
	return r >= RatingHard && r <= RatingEasy
}

// Outcome はスケジューラが統計集計のために返す復習結果です
type Outcome int

const (
	OutcomeIncorrect Outcome = iota
	OutcomeCorrect
)

func (o Outcome) String() string {
	if o == OutcomeCorrect {
		return "correct"
	}
	return "incorrect"
}

// StudyMode は学習セッション開始時のフィルタ/並び替えポリシーです
type StudyMode string

const (
	ModeAll     StudyMode = "all"     // 全カード、デッキ順
	ModeReview  StudyMode = "review"  // mastery < 60
	ModeMastery StudyMode = "mastery" // mastery < 80
	ModeShuffle StudyMode = "shuffle" // 全カード、呼び出しごとにランダム順
	ModeSpeed   StudyMode = "speed"   // 全カード。タイマーはUI側の関心
)

// Valid は定義済みの学習モードかを返します
func (m StudyMode) Valid() bool {
	switch m {
	case ModeAll, ModeReview, ModeMastery, ModeShuffle, ModeSpeed:
		return true
	}
	return false
}

// マスタリーの閾値
const (
	ReviewMasteryThreshold = 60
	MasteryModeThreshold   = 80
)

// セッション開始リクエストDTO
type StartSessionRequest struct {
	Mode StudyMode `json:"mode" validate:"required"`
}

// 復習結果送信リクエストDTO。Rating はポインタにして 0 (Hard) を必須検証と両立させる
type SubmitReviewRequest struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
	Rating *Rating   `json:"rating" validate:"required"`
}

// セッション開始レスポンスDTO
type SessionResponse struct {
	SessionID uuid.UUID    `json:"session_id"`
	DeckID    uuid.UUID    `json:"deck_id"`
	Mode      StudyMode    `json:"mode"`
	Cards     []Card       `json:"cards"`
	Stats     SessionStats `json:"stats"`
}

// 復習結果のレスポンスDTO
type ReviewResponse struct {
	Card      Card         `json:"card"`
	Outcome   string       `json:"outcome"` // "correct" | "incorrect"
	Stats     SessionStats `json:"stats"`
	Remaining int          `json:"remaining"`
}

// スナップショットDTO (エクスポート/インポート)
type Snapshot struct {
	Decks      []Deck      `json:"decks"`
	Stats      GlobalStats `json:"stats"`
	ExportedAt time.Time   `json:"exported_at"`
}
