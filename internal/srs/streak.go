// internal/srs/streak.go
package srs

import (
	"time"

	"go_flash_keep/internal/model"
)

// DayKey は暦日の集合キーです (ローカルタイム基準)
const DayKey = "2006-01-02"

// RecordStudyEvent は連続学習日数を更新した新しい GlobalStats を返します。
// セッション開始後の最初の評価で1回だけ呼び出す想定です。
// 暦日の比較は一貫してローカルタイムで行います。深夜0時をまたぐ
// 境界のずれを避けるため、タイムゾーン換算を混ぜてはいけません
func RecordStudyEvent(stats model.GlobalStats, now time.Time) model.GlobalStats {
	today := now.Format(DayKey)

	if stats.LastStudyDate != nil && stats.LastStudyDate.Format(DayKey) == today {
		// 今日はすでにカウント済み
		return stats
	}

	yesterday := now.AddDate(0, 0, -1).Format(DayKey)
	if stats.LastStudyDate != nil && stats.LastStudyDate.Format(DayKey) == yesterday {
		stats.CurrentStreak++
	} else {
		// 2日以上の空白、または初回学習
		stats.CurrentStreak = 1
	}

	if stats.CurrentStreak > stats.BestStreak {
		stats.BestStreak = stats.CurrentStreak
	}
	stats.LastStudyDate = &now
	if !stats.HasStudyDay(today) {
		stats.StudyDays = append(stats.StudyDays, today)
	}
	return stats
}
