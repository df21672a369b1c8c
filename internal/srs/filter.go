// internal/srs/filter.go
package srs

import (
	"math/rand"

	"go_flash_keep/internal/model"
)

// FilterForStudy は学習モードに応じてカードを絞り込み・並び替えた新しい
// スライスを返します。入力の cards は変更しません。shuffle 以外のモードは
// 元の順序を保つ冪等なフィルタで、shuffle は呼び出しごとに rng で
// 並びを作り直します (結果は永続化しない)。
// 全カードが除外された場合は空のスライスを返します。これはエラーではなく
// 「復習対象なし」として呼び出し元が扱います
func FilterForStudy(cards []model.Card, mode model.StudyMode, rng *rand.Rand) []model.Card {
	switch mode {
	case model.ModeReview:
		return filterByMastery(cards, model.ReviewMasteryThreshold)
	case model.ModeMastery:
		return filterByMastery(cards, model.MasteryModeThreshold)
	case model.ModeShuffle:
		shuffled := append([]model.Card(nil), cards...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return shuffled
	default:
		// all / speed はデッキ順そのまま
		return append([]model.Card(nil), cards...)
	}
}

func filterByMastery(cards []model.Card, threshold int) []model.Card {
	filtered := make([]model.Card, 0, len(cards))
	for _, c := range cards {
		if c.Mastery < threshold {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
