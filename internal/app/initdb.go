package app

import (
	"errors"
	"strings"
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "stoqadmin"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type configSchema struct {
	Key         string
	Default     string
	Description string
}

// Default settings initialized into sys_config on first boot
var configSchemas = []configSchema{
	{"order.DefaultTaxRate", "0.13", "Default HST rate applied to storefront orders (decimal fraction)"},
	{"order.DefaultPaymentTerms", "NET 30", "Payment terms preselected on new invoices"},
	{"inventory.LowStockThreshold", "5", "Quantity at or below which the low stock job reports an item"},
	{"invoice.CompanyName", "STOQ Wholesale Inc.", "Company name printed on invoices"},
	{"invoice.CompanyAddress", "100 Commerce Way\nToronto, ON", "Company address printed on invoices"},
	{"invoice.DefaultTerms", "All sales final. Payment due per stated terms.", "Default terms text on new invoices"},
	{"smtp.Server", "", "SMTP server host for order notifications"},
	{"smtp.Port", "587", "SMTP server port"},
	{"smtp.Username", "", "SMTP username"},
	{"smtp.Password", "", "SMTP password"},
	{"smtp.From", "noreply@stoq.local", "Notification sender address"},
	{"smtp.NotifyTo", "", "Admin address receiving order notifications"},
	{"smtp.Enabled", "false", "Whether order notification mail is sent"},
	{"system.OprLogRetentionDays", "365", "Days to keep operator audit logs"},
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range configSchemas {
		// Parse key: "category.name" -> category, name
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		// Check whether the configuration already exists
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     0,
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}
