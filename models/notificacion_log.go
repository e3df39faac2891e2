package models

import "time"

type NotificacionLog struct {
	ID           uint   `gorm:"primaryKey"`
	FirmaID      *uint  `gorm:"index"`
	ClienteID    uint   `gorm:"index;not null"`
	Destino      string `gorm:"type:varchar(40)"`
	Canal        string `gorm:"type:varchar(20)"` // whatsapp, sms
	Mensaje      string `gorm:"type:text"`
	Estado       string `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string `gorm:"type:text"`
	SID          string `gorm:"column:sid;type:varchar(64)"`
	SentAt       time.Time
}

func (NotificacionLog) TableName() string {
	return "notificacion_logs"
}
