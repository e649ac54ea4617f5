package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentNotificationLogModel keeps every inbound webhook with its reconciliation outcome.
type PaymentNotificationLogModel struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	OrderID    int64  `gorm:"index"`
	PaymentID  int64  `gorm:"index"`
	Amount     int64
	Status     string `gorm:"type:varchar(32)"`
	Outcome    string `gorm:"type:varchar(32);index"`
	Error      string
	Payload    datatypes.JSON
	ReceivedAt time.Time `gorm:"not null;index"`
}

func (PaymentNotificationLogModel) TableName() string {
	return "payment_notification_logs"
}
