// internal/model/stats.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// GlobalStats は生涯累計の学習統計です。プロセス全体で1レコードのみ存在し、
// ゼロ値で作成されて以降は加算されるだけです
type GlobalStats struct {
	ID             uint                        `gorm:"primaryKey" json:"-"` // 常に 1
	TotalStudied   int                         `gorm:"not null;default:0" json:"total_studied"`
	TotalCorrect   int                         `gorm:"not null;default:0" json:"total_correct"`
	TotalIncorrect int                         `gorm:"not null;default:0" json:"total_incorrect"`
	CurrentStreak  int                         `gorm:"not null;default:0" json:"current_streak"`
	BestStreak     int                         `gorm:"not null;default:0" json:"best_streak"`
	LastStudyDate  *time.Time                  `json:"last_study_date,omitempty"`
	StudyDays      datatypes.JSONSlice[string] `json:"study_days"` // "2006-01-02" 形式の集合
	UpdatedAt      time.Time                   `json:"-"`
}

func (GlobalStats) TableName() string {
	return "global_stats"
}

// GlobalStatsID は唯一のレコードの主キーです
const GlobalStatsID uint = 1

// HasStudyDay は指定の暦日が記録済みかを返します
func (g *GlobalStats) HasStudyDay(day string) bool {
	for _, d := range g.StudyDays {
		if d == day {
			return true
		}
	}
	return false
}

// 統計APIのレスポンスDTO。設定値の daily_goal と当日分の達成状況を添える
type StatsResponse struct {
	GlobalStats
	DailyGoal    int  `json:"daily_goal"`
	StudiedToday bool `json:"studied_today"`
}

// SessionStats は学習セッション中の一時的な統計です。
// セッション開始のたびにゼロから数え直し、永続化はしません
type SessionStats struct {
	Studied   int `json:"studied"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Streak    int `json:"streak"` // セッション内の連続正解数
}
