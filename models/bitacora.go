package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TipoHorasIndividual = "Individual"
	TipoHorasPaquete    = "Paquete"
)

type Bitacora struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	NoTicket            string          `gorm:"index" json:"no_ticket"`
	FechaServicio       time.Time       `gorm:"index;not null" json:"fecha_servicio"`
	HoraLlegada         string          `json:"hora_llegada"`
	HoraSalida          string          `json:"hora_salida"`
	Modalidad           string          `json:"modalidad"`
	HorasConsumidas     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"horas_consumidas"`
	TipoHoras           string          `gorm:"type:varchar(20);not null" json:"tipo_horas"`
	DescripcionServicio string          `gorm:"type:text" json:"descripcion_servicio"`
	Comentarios         string          `gorm:"type:text" json:"comentarios"`
	Ventas              string          `gorm:"type:text" json:"ventas"`
	NombresCapacitados  string          `json:"nombres_capacitados"`
	// Monto is derived from the configured rates at creation.
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monto"`
	Calificacion *int            `json:"calificacion"`
	FirmaTecnico bool            `gorm:"default:false" json:"firma_tecnico"`

	ClienteID      uint  `gorm:"index;not null" json:"cliente_id"`
	UsuarioID      uint  `gorm:"index;not null" json:"usuario_id"`
	TipoServicioID uint  `gorm:"index;not null" json:"tipo_servicio_id"`
	SistemaID      *uint `gorm:"index" json:"sistema_id"`
	EquipoID       *uint `gorm:"index" json:"equipo_id"`
	FirmaClienteID *uint `gorm:"column:firma_cliente_id;index" json:"firma_cliente_id"`

	Cliente      *Cliente      `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	Usuario      *Usuario      `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`
	TipoServicio *TipoServicio `gorm:"foreignKey:TipoServicioID" json:"tipo_servicio,omitempty"`
	Sistema      *Sistema      `gorm:"foreignKey:SistemaID" json:"sistema,omitempty"`
	Equipo       *Equipo       `gorm:"foreignKey:EquipoID" json:"equipo,omitempty"`
	FirmaCliente *Firma        `gorm:"foreignKey:FirmaClienteID" json:"firma_cliente,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Objetivo returns the equipment-or-system the log refers to, using the loaded
// relations for the label.
func (b *Bitacora) Objetivo() Objetivo {
	switch {
	case b.EquipoID != nil:
		o := Objetivo{Tipo: ObjetivoEquipo, ID: *b.EquipoID}
		if b.Equipo != nil {
			o.Etiqueta = b.Equipo.Equipo
		}
		return o
	case b.SistemaID != nil:
		o := Objetivo{Tipo: ObjetivoSistema, ID: *b.SistemaID}
		if b.Sistema != nil {
			o.Etiqueta = b.Sistema.Sistema
		}
		return o
	}
	return Objetivo{}
}

func (Bitacora) TableName() string {
	return "bitacoras"
}
