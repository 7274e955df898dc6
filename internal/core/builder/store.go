package builder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"recipe-builder/internal/infrastructure/config"
	"recipe-builder/internal/pkg/common"
)

// Store 工作階段狀態儲存
// 記憶體為主，型錄與狀態整批取代不做合併；可選擇性鏡射到 Redis
type Store struct {
	config   *config.Config
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	client   *redis.Client
	stats    storeStats
}

// sessionEntry 單一工作階段
type sessionEntry struct {
	state      State
	expiresAt  time.Time
	lastAccess time.Time
}

// storeStats 儲存統計
type storeStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewStore 創建新的工作階段儲存
func NewStore(cfg *config.Config) (*Store, error) {
	s := &Store{
		config:   cfg,
		sessions: make(map[string]sessionEntry),
	}

	if cfg.Session.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Session.RedisAddr,
		})
		// 測試連接
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		s.client = client
	}

	// 啟動清理過期工作階段的協程
	go s.startCleanup()

	common.LogInfo("工作階段儲存已初始化",
		zap.Int("最大數量", cfg.Session.MaxSessions),
		zap.Duration("存活時間", cfg.Session.TTL),
		zap.Bool("redis", cfg.Session.RedisEnabled),
	)

	return s, nil
}

// Get 取得工作階段狀態
func (s *Store) Get(ctx context.Context, sessionID string) (State, bool) {
	s.mu.Lock()
	entry, exists := s.sessions[sessionID]
	if exists && time.Now().Before(entry.expiresAt) {
		entry.lastAccess = time.Now()
		s.sessions[sessionID] = entry
		s.stats.hits++
		s.mu.Unlock()
		return entry.state, true
	}
	if exists {
		delete(s.sessions, sessionID)
		s.stats.evictions++
	}
	s.stats.misses++
	s.mu.Unlock()

	// 記憶體沒有時嘗試從 Redis 讀回
	if s.client != nil {
		data, err := s.client.Get(ctx, s.redisKey(sessionID)).Bytes()
		if err == nil {
			var state State
			if err := common.ParseJSONBytes(data, &state); err == nil {
				s.mu.Lock()
				s.sessions[sessionID] = sessionEntry{
					state:      state,
					expiresAt:  time.Now().Add(s.config.Session.TTL),
					lastAccess: time.Now(),
				}
				s.mu.Unlock()
				return state, true
			}
			common.LogWarn("Redis 中的工作階段無法解析", zap.Error(err))
		} else if err != redis.Nil {
			common.LogWarn("讀取 Redis 工作階段失敗", zap.Error(err))
		}
	}

	return State{}, false
}

// Put 整批寫入工作階段狀態
func (s *Store) Put(ctx context.Context, sessionID string, state State) error {
	s.mu.Lock()
	if _, exists := s.sessions[sessionID]; !exists && len(s.sessions) >= s.config.Session.MaxSessions {
		s.evictOldest()
		if len(s.sessions) >= s.config.Session.MaxSessions {
			s.mu.Unlock()
			return common.ErrStoreFull
		}
	}
	now := time.Now()
	s.sessions[sessionID] = sessionEntry{
		state:      state,
		expiresAt:  now.Add(s.config.Session.TTL),
		lastAccess: now,
	}
	s.mu.Unlock()

	if s.client != nil {
		data, err := common.ToJSON(state)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		if err := s.client.Set(ctx, s.redisKey(sessionID), data, s.config.Session.TTL).Err(); err != nil {
			common.LogWarn("寫入 Redis 工作階段失敗", zap.Error(err))
		}
	}

	return nil
}

// redisKey 生成 Redis 鍵
func (s *Store) redisKey(sessionID string) string {
	return fmt.Sprintf("builder:session:%s", sessionID)
}

// evictOldest 淘汰最久未使用的工作階段
func (s *Store) evictOldest() {
	var oldestKey string
	var oldestAccess time.Time
	for key, entry := range s.sessions {
		if oldestKey == "" || entry.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(s.sessions, oldestKey)
		s.stats.evictions++
		common.LogInfo("工作階段已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// startCleanup 啟動清理過期工作階段的協程
func (s *Store) startCleanup() {
	ticker := time.NewTicker(s.config.Session.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

// cleanup 清理過期的工作階段
func (s *Store) cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for key, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, key)
			count++
			s.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("已清理過期工作階段",
			zap.Int("數量", count),
			zap.Int("剩餘", len(s.sessions)),
		)
	}

	return count
}

// GetStats 獲取儲存統計信息
func (s *Store) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"sessions":     len(s.sessions),
		"max_sessions": s.config.Session.MaxSessions,
		"hits":         s.stats.hits,
		"misses":       s.stats.misses,
		"evictions":    s.stats.evictions,
	}
}

// Close 關閉儲存
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]sessionEntry)
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
