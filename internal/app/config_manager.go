package app

import (
	"sync"
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const configCacheTTL = 30 * time.Second

// ConfigManager reads runtime settings from the sys_config table with a
// short-lived in-memory cache. Values are stored as strings and converted
// on read with spf13/cast.
type ConfigManager struct {
	app *Application

	mu       sync.RWMutex
	cache    map[string]string
	cachedAt time.Time
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app, cache: make(map[string]string)}
}

func (m *ConfigManager) get(category, name string) string {
	key := category + "." + name

	m.mu.RLock()
	if time.Since(m.cachedAt) < configCacheTTL {
		if v, ok := m.cache[key]; ok {
			m.mu.RUnlock()
			return v
		}
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.cachedAt) >= configCacheTTL {
		var rows []domain.SysConfig
		if err := m.app.gormDB.Find(&rows).Error; err != nil {
			zap.L().Error("failed to load sys_config", zap.Error(err))
			return m.cache[key]
		}
		m.cache = make(map[string]string, len(rows))
		for _, row := range rows {
			m.cache[row.Type+"."+row.Name] = row.Value
		}
		m.cachedAt = time.Now()
	}
	return m.cache[key]
}

// Invalidate drops the settings cache, forcing a reload on next read.
func (m *ConfigManager) Invalidate() {
	m.mu.Lock()
	m.cachedAt = time.Time{}
	m.mu.Unlock()
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.get(category, name)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.get(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.get(category, name))
}

func (m *ConfigManager) GetFloat64(category, name string) float64 {
	return cast.ToFloat64(m.get(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.get(category, name))
}

// Set upserts a setting value and invalidates the cache.
func (m *ConfigManager) Set(category, name, value string) error {
	var cfg domain.SysConfig
	err := m.app.gormDB.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		err = m.app.gormDB.Create(&domain.SysConfig{
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	} else {
		err = m.app.gormDB.Model(&domain.SysConfig{}).
			Where("id = ?", cfg.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return err
	}
	m.Invalidate()
	return nil
}
