package generation

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-builder/internal/infrastructure/config"
	"recipe-builder/internal/pkg/common"
)

// Cache 生成結果緩存，鍵為提示詞的雜湊
type Cache struct {
	config *config.Config
	mu     sync.RWMutex
	store  map[string]cacheEntry
	stats  cacheStats
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewCache 創建新的生成結果緩存
func NewCache(cfg *config.Config) *Cache {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	c := &Cache{
		config: cfg,
		store:  make(map[string]cacheEntry),
	}

	// 啟動清理過期緩存的協程
	go c.startCleanup()

	common.LogInfo("生成緩存已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
	)

	return c
}

// Get 獲取緩存值
func (c *Cache) Get(prompt string) (string, bool) {
	if c == nil {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := hashPrompt(prompt)
	entry, exists := c.store[key]
	if !exists {
		c.stats.misses++
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.evictions++
		c.stats.misses++
		return "", false
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	c.store[key] = entry
	c.stats.hits++
	return entry.value, true
}

// Set 設置緩存值
func (c *Cache) Set(prompt, value string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.config.Cache.MaxSize {
		c.cleanupLocked()
		if len(c.store) >= c.config.Cache.MaxSize {
			c.evictLRULocked()
		}
	}

	now := time.Now()
	c.store[hashPrompt(prompt)] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(c.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

// hashPrompt 計算提示詞的 SHA-256 哈希值
func hashPrompt(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

// startCleanup 啟動清理過期緩存的協程
func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		c.cleanupLocked()
		c.mu.Unlock()
	}
}

// cleanupLocked 清理過期的緩存，呼叫前必須持有鎖
func (c *Cache) cleanupLocked() {
	now := time.Now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			c.stats.evictions++
		}
	}
}

// evictLRULocked 淘汰最少使用的條目，呼叫前必須持有鎖
func (c *Cache) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.evictions++
	}
}
