package app

import (
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedClearExpireOprLogs()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 10m", func() {
		a.SchedLowStockScan()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedClearExpireOprLogs removes operator audit logs past the retention window
func (a *Application) SchedClearExpireOprLogs() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	idays := a.ConfigMgr().GetInt("system", "OprLogRetentionDays")
	if idays == 0 {
		idays = 365
	}
	a.gormDB.
		Where("opt_time < ? ", time.Now().
			Add(-time.Hour*24*time.Duration(idays))).Delete(domain.SysOprLog{})
}

// SchedLowStockScan logs inventory items at or below the configured
// low stock threshold so admins can restock.
func (a *Application) SchedLowStockScan() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	threshold := a.ConfigMgr().GetInt("inventory", "LowStockThreshold")
	if threshold <= 0 {
		threshold = 5
	}

	var items []domain.InventoryItem
	if err := a.gormDB.
		Where("archived = ? AND qty <= ?", false, threshold).
		Find(&items).Error; err != nil {
		zap.L().Error("low stock scan failed", zap.Error(err))
		return
	}

	for _, item := range items {
		zap.L().Warn("low stock",
			zap.Int64("item_id", item.ID),
			zap.String("device", item.DeviceName),
			zap.String("brand", item.Brand),
			zap.Int("qty", item.Qty))
	}
}
