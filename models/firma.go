package models

import "time"

// Firma holds a signature image. Technician signatures carry TecnicoID; client
// signature requests carry a Token and stay pending while FirmaBase64 is empty.
type Firma struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TecnicoID    *uint      `gorm:"index" json:"tecnico_id,omitempty"`
	Token        *string    `gorm:"uniqueIndex;size:64" json:"-"`
	FirmaBase64  string     `gorm:"type:text;not null;default:''" json:"firma_base64,omitempty"`
	URL          string     `json:"url,omitempty"`
	CompletadaEn *time.Time `json:"completada_en,omitempty"`
	// UltimoAviso is the last time the signing link was sent to the client.
	UltimoAviso *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (f *Firma) Pendiente() bool {
	return f.FirmaBase64 == ""
}

func (Firma) TableName() string {
	return "firmas"
}
