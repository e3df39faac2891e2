package models

import (
	"strings"
	"time"

	"bitacoras-backend/utils"

	"gorm.io/gorm"
)

const (
	RolTecnico = "tecnico"
	RolAdmin   = "admin"
)

// Usuario is a technician or an administrator.
type Usuario struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nombre   string `gorm:"uniqueIndex;not null" json:"nombre"`
	Correo   string `gorm:"uniqueIndex;not null" json:"correo"`
	Password string `gorm:"not null" json:"-"`
	Telefono string `json:"telefono"`
	Rol      string `gorm:"type:varchar(20);not null;default:'tecnico'" json:"rol"`

	ZonaAsignada string     `json:"zona_asignada"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Activo       bool       `gorm:"default:true" json:"activo"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *Usuario) BeforeCreate(tx *gorm.DB) (err error) {
	u.Correo = strings.ToLower(strings.TrimSpace(u.Correo))
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

func (Usuario) TableName() string {
	return "usuarios"
}
