// Package events defines the domain events published to the message broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	BitacoraCreada  = "bitacora.creada"
	FirmaSolicitada = "firma.solicitada"
	FirmaCompletada = "firma.completada"
)

type Evento struct {
	ID         string          `json:"id"`
	Tipo       string          `json:"tipo"`
	OcurridoEn time.Time       `json:"ocurrido_en"`
	Payload    json.RawMessage `json:"payload"`
}

type BitacoraCreadaPayload struct {
	BitacoraID uint   `json:"bitacora_id"`
	ClienteID  uint   `json:"cliente_id"`
	UsuarioID  uint   `json:"usuario_id"`
	TipoHoras  string `json:"tipo_horas"`
	Horas      string `json:"horas"`
	Monto      string `json:"monto"`
}

type FirmaSolicitadaPayload struct {
	FirmaID    uint   `json:"firma_id"`
	BitacoraID uint   `json:"bitacora_id"`
	ClienteID  uint   `json:"cliente_id"`
	URL        string `json:"url"`
}

type FirmaCompletadaPayload struct {
	FirmaID    uint  `json:"firma_id"`
	BitacoraID *uint `json:"bitacora_id,omitempty"`
}

func Nuevo(tipo string, payload interface{}) (Evento, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Evento{}, err
	}
	return Evento{
		ID:         uuid.NewString(),
		Tipo:       tipo,
		OcurridoEn: time.Now().UTC(),
		Payload:    body,
	}, nil
}

// Decode unmarshals the payload into v.
func (e Evento) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

type Publisher interface {
	Publish(ctx context.Context, ev Evento) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Evento) error { return nil }
