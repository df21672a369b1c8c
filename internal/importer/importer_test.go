// internal/importer/importer_test.go
package importer

import (
	"testing"
	"time"

	"go_flash_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []model.CardPair
	}{
		{
			name: "正常系: ヘッダ行をスキップしてペアを読む",
			input: "Front | Back\n" +
				"What is Big O notation? | A way to describe how runtime grows\n" +
				"What does LIFO stand for? | Last In First Out\n",
			want: []model.CardPair{
				{Front: "What is Big O notation?", Back: "A way to describe how runtime grows"},
				{Front: "What does LIFO stand for?", Back: "Last In First Out"},
			},
		},
		{
			name:  "正常系: ヘッダなしでも1行目から読める",
			input: "犬 | dog\n猫 | cat",
			want: []model.CardPair{
				{Front: "犬", Back: "dog"},
				{Front: "猫", Back: "cat"},
			},
		},
		{
			name:  "正常系: 空行と不完全な行は読み飛ばす",
			input: "a | b\n\nno separator line\nonly-front |\n| only-back\nc | d\n",
			want: []model.CardPair{
				{Front: "a", Back: "b"},
				{Front: "c", Back: "d"},
			},
		},
		{
			name:  "正常系: 空入力は0件",
			input: "",
			want:  nil,
		},
		{
			name:  "正常系: 前後の空白は取り除く",
			input: "  term  |  definition  ",
			want:  []model.CardPair{{Front: "term", Back: "definition"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseText(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCard(t *testing.T) {
	deckID := uuid.New()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

	card := NewCard(deckID, model.CardPair{Front: "f", Back: "b"}, now)

	assert.NotEqual(t, uuid.Nil, card.CardID)
	assert.Equal(t, deckID, card.DeckID)
	assert.Equal(t, "f", card.Front)
	assert.Equal(t, "b", card.Back)
	assert.Equal(t, model.DefaultEasiness, card.Easiness)
	assert.Equal(t, 1, card.Interval)
	assert.Equal(t, 0, card.Repetitions)
	assert.Equal(t, 0, card.Mastery)
	assert.Equal(t, now, card.NextReview)
	assert.Nil(t, card.LastReviewed)
	assert.True(t, card.Valid())
}
