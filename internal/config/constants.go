// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "go_flash_keep"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultAppReviewLimit = 20
	DefaultAppDailyGoal   = 20
	DefaultDatabaseURL    = "flash_keep.db"
)
