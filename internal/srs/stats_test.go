// internal/srs/stats_test.go
package srs

import (
	"testing"

	"go_flash_keep/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		outcome     model.Outcome
		session     model.SessionStats
		global      model.GlobalStats
		wantSession model.SessionStats
		wantGlobal  model.GlobalStats
	}{
		{
			name:        "正常系: Correct で studied/correct/streak が増える",
			outcome:     model.OutcomeCorrect,
			session:     model.SessionStats{Studied: 3, Correct: 2, Incorrect: 1, Streak: 2},
			global:      model.GlobalStats{TotalStudied: 100, TotalCorrect: 70, TotalIncorrect: 30},
			wantSession: model.SessionStats{Studied: 4, Correct: 3, Incorrect: 1, Streak: 3},
			wantGlobal:  model.GlobalStats{TotalStudied: 101, TotalCorrect: 71, TotalIncorrect: 30},
		},
		{
			name:        "正常系: Incorrect でセッション streak が0に戻る",
			outcome:     model.OutcomeIncorrect,
			session:     model.SessionStats{Studied: 3, Correct: 2, Incorrect: 1, Streak: 2},
			global:      model.GlobalStats{TotalStudied: 100, TotalCorrect: 70, TotalIncorrect: 30},
			wantSession: model.SessionStats{Studied: 4, Correct: 2, Incorrect: 2, Streak: 0},
			wantGlobal:  model.GlobalStats{TotalStudied: 101, TotalCorrect: 70, TotalIncorrect: 31},
		},
		{
			name:        "正常系: ゼロ値から始められる",
			outcome:     model.OutcomeCorrect,
			wantSession: model.SessionStats{Studied: 1, Correct: 1, Streak: 1},
			wantGlobal:  model.GlobalStats{TotalStudied: 1, TotalCorrect: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSession, gotGlobal := Apply(tt.outcome, tt.session, tt.global)

			assert.Equal(t, tt.wantSession, gotSession)
			assert.Equal(t, tt.wantGlobal, gotGlobal)
		})
	}
}

func TestApply_CountersAreAdditive(t *testing.T) {
	// 正解・不正解を交互に適用した合計が件数と一致する
	var session model.SessionStats
	var global model.GlobalStats

	outcomes := []model.Outcome{
		model.OutcomeCorrect, model.OutcomeIncorrect, model.OutcomeCorrect,
		model.OutcomeCorrect, model.OutcomeIncorrect,
	}
	for _, o := range outcomes {
		session, global = Apply(o, session, global)
	}

	assert.Equal(t, 5, session.Studied)
	assert.Equal(t, 3, session.Correct)
	assert.Equal(t, 2, session.Incorrect)
	assert.Equal(t, 0, session.Streak) // 最後が不正解
	assert.Equal(t, 5, global.TotalStudied)
	assert.Equal(t, 3, global.TotalCorrect)
	assert.Equal(t, 2, global.TotalIncorrect)
}
