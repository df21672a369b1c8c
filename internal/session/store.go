// internal/session/store.go
//
// 学習セッションのインメモリストア。SessionStats はセッション開始ごとに
// ゼロから数え直す一時的な値なので、DBではなくここに持ちます
package session

import (
	"context"
	"sync"
	"time"

	"go_flash_keep/internal/model"

	"github.com/google/uuid"
)

const (
	// InactivityTTL を超えて操作のないセッションは掃除される
	InactivityTTL   = 24 * time.Hour
	SweeperInterval = 10 * time.Minute
)

// Session は進行中の学習セッションの状態です
type Session struct {
	SessionID      uuid.UUID
	DeckID         uuid.UUID
	Mode           model.StudyMode
	Queue          []uuid.UUID // 提示順のカードID
	Position       int         // 次に evaluable なキュー位置
	Stats          model.SessionStats
	StreakRecorded bool // セッション最初の評価でストリーク更新済みか
	LastActivityAt time.Time
}

// Remaining は未評価のカード枚数を返します
func (s *Session) Remaining() int {
	if s.Position >= len(s.Queue) {
		return 0
	}
	return len(s.Queue) - s.Position
}

// Contains はカードがこのセッションのキューに含まれるかを返します
func (s *Session) Contains(cardID uuid.UUID) bool {
	for _, id := range s.Queue {
		if id == cardID {
			return true
		}
	}
	return false
}

// Store はセッションをIDで管理するインメモリストアです
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		now:      now,
	}
}

// Start は新しいセッションを作成して登録します
func (st *Store) Start(deckID uuid.UUID, mode model.StudyMode, queue []uuid.UUID) *Session {
	s := &Session{
		SessionID:      uuid.New(),
		DeckID:         deckID,
		Mode:           mode,
		Queue:          append([]uuid.UUID(nil), queue...),
		LastActivityAt: st.now(),
	}
	st.mu.Lock()
	st.sessions[s.SessionID] = s
	st.mu.Unlock()
	return snapshot(s)
}

// Get はセッションのコピーを返します。見つからなければ model.ErrNotFound
func (st *Store) Get(sessionID uuid.UUID) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[sessionID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return snapshot(s), nil
}

// Update はセッションの状態を置き換えます (存在しなければ model.ErrNotFound)
func (st *Store) Update(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.SessionID]; !ok {
		return model.ErrNotFound
	}
	updated := snapshot(s)
	updated.LastActivityAt = st.now()
	st.sessions[s.SessionID] = updated
	return nil
}

// Delete はセッションを破棄します。存在しなくてもエラーにしません
func (st *Store) Delete(sessionID uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sessionID)
}

// Sweep は TTL を超えたセッションを削除し、削除数を返します
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-InactivityTTL)
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.LastActivityAt.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper は ctx が閉じられるまで定期的に Sweep を回します
func (st *Store) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(SweeperInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.Sweep()
			}
		}
	}()
}

func snapshot(s *Session) *Session {
	c := *s
	c.Queue = append([]uuid.UUID(nil), s.Queue...)
	return &c
}
