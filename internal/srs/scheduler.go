// internal/srs/scheduler.go
//
// 簡易SM-2のスケジューラ。カード + 評価 → 新しいカード の純粋関数として実装し、
// サービス層が統計更新と同一トランザクションで合成できるようにしています。
package srs

import (
	"math"
	"time"

	"go_flash_keep/internal/model"
)

// 評価ごとのマスタリー増減
const (
	masteryPenaltyHard = 15
	masteryGainGood    = 10
	masteryGainEasy    = 20
)

// Schedule は1回の評価を適用した新しいカードと復習結果を返します。
// 引数の card は変更しません。評価が {0,1,2} の範囲外の場合は
// model.ErrInvalidRating を返し、カードを無変更のまま返します。
func Schedule(card model.Card, rating model.Rating, now time.Time) (model.Card, model.Outcome, error) {
	if !rating.Valid() {
		return card, model.OutcomeIncorrect, model.ErrInvalidRating
	}

	if rating == model.RatingHard {
		// 失敗: 反復回数と間隔をリセットし、マスタリーを減らす。easiness は据え置き
		card.Repetitions = 0
		card.Interval = model.MinInterval
		card.Mastery = max(0, card.Mastery-masteryPenaltyHard)
		card.NextReview = now.AddDate(0, 0, card.Interval)
		card.LastReviewed = &now
		return card, model.OutcomeIncorrect, nil
	}

	// 成功 (Good / Easy)
	card.Repetitions++
	card.Easiness = nextEasiness(card.Easiness, rating)
	gain := masteryGainGood
	if rating == model.RatingEasy {
		gain = masteryGainEasy
	}
	card.Mastery = min(model.MaxMastery, card.Mastery+gain)
	card.Interval = nextInterval(card.Repetitions, card.Interval, card.Easiness)
	card.NextReview = now.AddDate(0, 0, card.Interval)
	card.LastReviewed = &now
	return card, model.OutcomeCorrect, nil
}

// nextEasiness はSM-2の easiness 更新式です。低い評価ほど減少幅が大きく、
// 1.3 を下限として間隔の縮小が暴走しないようにします
func nextEasiness(easiness float64, rating model.Rating) float64 {
	q := float64(rating)
	e := easiness + (0.1 - (2-q)*(0.08+(2-q)*0.02))
	return math.Max(model.MinEasiness, e)
}

// nextInterval は反復回数に応じた間隔を返します。序盤は固定の階段
// (1日 → 6日)、3回目以降は乗算で伸ばします。
// 丸めは math.Round (正の値では四捨五入) に固定しています
func nextInterval(repetitions, interval int, easiness float64) int {
	switch repetitions {
	case 1:
		return 1
	case 2:
		return 6
	default:
		return int(math.Round(float64(interval) * easiness))
	}
}
