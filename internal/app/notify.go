package app

import (
	"fmt"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// subscribeEvents wires order events to the notification mailer.
func (a *Application) subscribeEvents() {
	if err := a.bus.SubscribeAsync(EventOrderPlaced, a.notifyOrderPlaced, false); err != nil {
		zap.L().Error("subscribe order.placed failed", zap.Error(err))
	}
	if err := a.bus.SubscribeAsync(EventOrderApproved, a.notifyOrderApproved, false); err != nil {
		zap.L().Error("subscribe order.approved failed", zap.Error(err))
	}
}

func (a *Application) notifyOrderPlaced(orderID int64) {
	a.sendOrderMail(orderID, "New order received",
		"A new order is awaiting review in the admin dashboard.")
}

func (a *Application) notifyOrderApproved(orderID int64) {
	a.sendOrderMail(orderID, "Order approved",
		"The order has been approved and stock has been allocated.")
}

func (a *Application) sendOrderMail(orderID int64, subject, body string) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	cm := a.ConfigMgr()
	if !cm.GetBool("smtp", "Enabled") {
		return
	}
	server := cm.GetString("smtp", "Server")
	to := cm.GetString("smtp", "NotifyTo")
	if server == "" || to == "" {
		return
	}

	var order domain.Order
	if err := a.gormDB.First(&order, orderID).Error; err != nil {
		zap.L().Error("notify: order lookup failed", zap.Int64("order_id", orderID), zap.Error(err))
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cm.GetString("smtp", "From"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("[stoq] %s (order %d)", subject, order.ID))
	m.SetBody("text/plain", fmt.Sprintf("%s\n\nOrder: %d\nStatus: %s\nTotal: $%.2f\n",
		body, order.ID, order.Status, order.TotalPrice))

	d := gomail.NewDialer(server, cm.GetInt("smtp", "Port"),
		cm.GetString("smtp", "Username"), cm.GetString("smtp", "Password"))
	if err := d.DialAndSend(m); err != nil {
		zap.L().Error("notify: send mail failed", zap.Int64("order_id", orderID), zap.Error(err))
		return
	}
	zap.L().Info("order notification sent", zap.Int64("order_id", orderID), zap.String("subject", subject))
}
