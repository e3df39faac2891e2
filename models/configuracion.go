package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfiguracionID is the id of the singleton configuration row.
const ConfiguracionID = 1

type Configuracion struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	ValorHoraIndividual decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"valor_hora_individual"`
	ValorHoraPaquete    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"valor_hora_paquete"`
	// Comision is a percentage, 15 means 15%.
	Comision  decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"comision"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Encuesta is a satisfaction survey. Logs can only be created while one is active.
type Encuesta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Titulo    string    `gorm:"not null" json:"titulo"`
	Activa    bool      `gorm:"default:false;index" json:"activa"`
	CreatedAt time.Time `json:"created_at"`
}

func (Configuracion) TableName() string {
	return "configuraciones"
}

func (Encuesta) TableName() string {
	return "encuestas"
}
