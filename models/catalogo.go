package models

type TipoServicio struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TipoServicio string `gorm:"not null" json:"tipo_servicio"`
	Descripcion  string `json:"descripcion"`
	Activo       bool   `gorm:"default:true" json:"activo"`
}

type Sistema struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Sistema string `gorm:"not null" json:"sistema"`
	Activo  bool   `gorm:"default:true" json:"activo"`
}

type Equipo struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Equipo string `gorm:"not null" json:"equipo"`
	Activo bool   `gorm:"default:true" json:"activo"`
}

func (TipoServicio) TableName() string {
	return "tipo_servicios"
}

func (Sistema) TableName() string {
	return "sistemas"
}

func (Equipo) TableName() string {
	return "equipos"
}
