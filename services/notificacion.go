package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitacoras-backend/events"
	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mensajero sends one text message and returns the provider message id.
type Mensajero interface {
	Enviar(to, from, body string) (string, error)
}

type TwilioMensajero struct {
	client *twilio.RestClient
}

func NewTwilioMensajero(accountSID, authToken string) *TwilioMensajero {
	return &TwilioMensajero{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

func (m *TwilioMensajero) Enviar(to, from, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}

type NotificacionService struct {
	db             *gorm.DB
	mensajero      Mensajero
	log            *zap.Logger
	numeroSMS      string
	numeroWhatsApp string
}

func NewNotificacionService(db *gorm.DB, m Mensajero, log *zap.Logger, numeroSMS, numeroWhatsApp string) *NotificacionService {
	return &NotificacionService{db: db, mensajero: m, log: log, numeroSMS: numeroSMS, numeroWhatsApp: numeroWhatsApp}
}

func (s *NotificacionService) canal(to string) (string, string, string) {
	if s.numeroWhatsApp != "" {
		return "whatsapp", "whatsapp:" + to, "whatsapp:" + s.numeroWhatsApp
	}
	return "sms", to, s.numeroSMS
}

func mensajeEnlaceFirma(b *models.Bitacora, enlace string) string {
	nombre := b.Cliente.Responsable
	if strings.TrimSpace(nombre) == "" {
		nombre = b.Cliente.Empresa
	}
	return fmt.Sprintf("Hola %s, por favor revise y firme la bitácora #%d (ticket %s) del %s: %s",
		nombre, b.ID, b.NoTicket, utils.FormatearFecha(b.FechaServicio), enlace)
}

// EnviarEnlaceFirma sends the signing link of a pending client signature to
// the client's phone and records the attempt. Completed requests are skipped.
func (s *NotificacionService) EnviarEnlaceFirma(ctx context.Context, firmaID uint) error {
	db := s.db.WithContext(ctx)

	var firma models.Firma
	if err := first(db, &firma, "Firma no encontrada", "id = ? AND token IS NOT NULL", firmaID); err != nil {
		return err
	}
	if !firma.Pendiente() {
		return nil
	}

	var b models.Bitacora
	if err := first(db.Preload("Cliente"), &b, "Bitácora no encontrada", "firma_cliente_id = ?", firmaID); err != nil {
		return err
	}
	if b.Cliente == nil {
		return utils.NotFound("Cliente no encontrado")
	}

	registro := models.NotificacionLog{
		FirmaID:   &firma.ID,
		ClienteID: b.ClienteID,
		SentAt:    time.Now().UTC(),
	}

	to, ok := utils.NormalizarTelefono(b.Cliente.Telefono)
	if !ok {
		s.log.Warn("client phone not dialable", zap.Uint("cliente_id", b.ClienteID), zap.String("telefono", b.Cliente.Telefono))
		registro.Estado = "failed"
		registro.ErrorMessage = "telefono invalido"
		registro.Destino = b.Cliente.Telefono
		return db.Create(&registro).Error
	}

	canal, destino, origen := s.canal(to)
	registro.Canal = canal
	registro.Destino = destino
	registro.Mensaje = mensajeEnlaceFirma(&b, firma.URL)

	sid, err := s.mensajero.Enviar(destino, origen, registro.Mensaje)
	if err != nil {
		s.log.Error("send signing link", zap.Uint("firma_id", firmaID), zap.String("to", destino), zap.Error(err))
		registro.Estado = "failed"
		registro.ErrorMessage = err.Error()
	} else {
		s.log.Info("signing link sent", zap.Uint("firma_id", firmaID), zap.String("sid", sid))
		registro.Estado = "sent"
		registro.SID = sid
	}

	if err := db.Create(&registro).Error; err != nil {
		s.log.Error("log notification", zap.Uint("firma_id", firmaID), zap.Error(err))
	}
	if registro.Estado == "sent" {
		return db.Model(&models.Firma{}).Where("id = ?", firmaID).Update("ultimo_aviso", registro.SentAt).Error
	}
	return nil
}

// ManejarFirmaSolicitada is the consumer handler for firma.solicitada events.
func (s *NotificacionService) ManejarFirmaSolicitada(ctx context.Context, ev events.Evento) error {
	var p events.FirmaSolicitadaPayload
	if err := ev.Decode(&p); err != nil {
		return err
	}
	return s.EnviarEnlaceFirma(ctx, p.FirmaID)
}
