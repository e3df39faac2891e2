package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cliente struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Empresa     string `gorm:"not null" json:"empresa"`
	Responsable string `json:"responsable"`
	RTN         string `gorm:"column:rtn;uniqueIndex;not null" json:"rtn"`
	Direccion   string `json:"direccion"`
	Telefono    string `json:"telefono"`
	Correo      string `json:"correo"`

	// Balances can go below zero; debits are never floored.
	HorasIndividuales decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"horas_individuales"`
	MontoIndividuales decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"monto_individuales"`
	HorasPaquetes     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"horas_paquetes"`
	MontoPaquetes     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"monto_paquetes"`

	Activo    bool      `gorm:"default:true" json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Bitacoras []Bitacora `gorm:"foreignKey:ClienteID" json:"-"`
}

func (Cliente) TableName() string {
	return "clientes"
}
