// internal/importer/importer.go
//
// インポートコラボレータ: "Front | Back" 形式のテキストから
// 初期化済みカードの一括作成を行います
package importer

import (
	"bufio"
	"io"
	"strings"
	"time"

	"go_flash_keep/internal/model"

	"github.com/google/uuid"
)

const separator = "|"

// ParsePairs はパイプ区切りの行を front/back ペアに変換します。
// 先頭行が "front" を含むヘッダならスキップし、空行と
// どちらかの面が欠けた行は読み飛ばします
func ParsePairs(r io.Reader) ([]model.CardPair, error) {
	scanner := bufio.NewScanner(r)
	var pairs []model.CardPair
	first := true

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if strings.Contains(strings.ToLower(line), "front") {
				continue
			}
		}

		front, back, found := strings.Cut(line, separator)
		if !found {
			continue
		}
		front = strings.TrimSpace(front)
		back = strings.TrimSpace(back)
		if front == "" || back == "" {
			continue
		}
		pairs = append(pairs, model.CardPair{Front: front, Back: back})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// ParseText は文字列版の ParsePairs です
func ParseText(text string) ([]model.CardPair, error) {
	return ParsePairs(strings.NewReader(text))
}

// NewCard はスケジューリング状態を初期値に設定したカードを作成します
// (easiness 2.5 / interval 1 / repetitions 0 / mastery 0 / nextReview = now)
func NewCard(deckID uuid.UUID, pair model.CardPair, now time.Time) model.Card {
	return model.Card{
		CardID:      uuid.New(),
		DeckID:      deckID,
		Front:       pair.Front,
		Back:        pair.Back,
		Easiness:    model.DefaultEasiness,
		Interval:    model.MinInterval,
		Repetitions: 0,
		Mastery:     0,
		NextReview:  now,
	}
}
