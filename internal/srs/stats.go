// internal/srs/stats.go
package srs

import "go_flash_keep/internal/model"

// Apply は復習結果をセッション統計と生涯統計に反映した新しい値を返します。
// カウンタは加算のみで、異なるカード間では適用順序に依存しません
func Apply(outcome model.Outcome, session model.SessionStats, global model.GlobalStats) (model.SessionStats, model.GlobalStats) {
	session.Studied++
	global.TotalStudied++

	if outcome == model.OutcomeCorrect {
		session.Correct++
		session.Streak++
		global.TotalCorrect++
	} else {
		session.Incorrect++
		session.Streak = 0
		global.TotalIncorrect++
	}
	return session, global
}
