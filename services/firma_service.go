package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"strings"
	"time"

	"bitacoras-backend/events"
	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	msgEnlaceInvalido = "El enlace ya ha sido utilizado o no es válido"
	msgErrorFirma     = "Error al procesar la firma"
	tamanoQR          = 256
)

type FirmaService struct {
	db      *gorm.DB
	events  events.Publisher
	log     *zap.Logger
	baseURL string
}

func NewFirmaService(db *gorm.DB, pub events.Publisher, log *zap.Logger, baseURL string) *FirmaService {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &FirmaService{db: db, events: pub, log: log, baseURL: baseURL}
}

func (s *FirmaService) persistencia(op string, err error) error {
	if isAppError(err) {
		return err
	}
	s.log.Error(op, zap.Error(err))
	return utils.Internal(msgErrorFirma)
}

// ValidarToken resolves a signing token to its client signature request. Used
// and unknown tokens both read as an invalid link.
func (s *FirmaService) ValidarToken(ctx context.Context, token string) (*models.Firma, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, utils.NotFound(msgEnlaceInvalido)
	}
	var firma models.Firma
	err := first(s.db.WithContext(ctx).Select("id", "url", "created_at"), &firma, msgEnlaceInvalido,
		"token = ? AND firma_base64 = ''", token)
	if err != nil {
		return nil, s.persistencia("validar token", err)
	}
	return &firma, nil
}

// DecodificarImagen accepts a PNG either as a data URL or as bare base64 and
// returns the raw bytes.
func DecodificarImagen(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if i := strings.Index(data, ","); strings.HasPrefix(data, "data:") && i >= 0 {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return raw, nil
}

func validarFirma(firmaBase64 string) error {
	if strings.TrimSpace(firmaBase64) == "" {
		return utils.BadRequest("La firma no puede estar vacía")
	}
	if _, err := DecodificarImagen(firmaBase64); err != nil {
		return utils.BadRequest("La firma debe ser una imagen PNG codificada en base64")
	}
	return nil
}

// Finalizar stores the client signature. The write only succeeds while the
// request is still pending, so a token can be completed once.
func (s *FirmaService) Finalizar(ctx context.Context, id uint, firmaBase64 string) error {
	if id == 0 {
		return utils.BadRequest("Se requiere el id de la firma")
	}
	if err := validarFirma(firmaBase64); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&models.Firma{}).
		Where("id = ? AND token IS NOT NULL AND firma_base64 = ''", id).
		Updates(map[string]interface{}{
			"firma_base64":  firmaBase64,
			"completada_en": time.Now().UTC(),
		})
	if res.Error != nil {
		return s.persistencia("finalizar firma", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Firma{}).Where("id = ? AND token IS NOT NULL", id).Count(&count).Error; err != nil {
			return s.persistencia("finalizar firma", err)
		}
		if count == 0 {
			return utils.NotFound("Firma no encontrada")
		}
		return utils.Conflict("El enlace ya ha sido utilizado.")
	}

	payload := events.FirmaCompletadaPayload{FirmaID: id}
	var bitacora models.Bitacora
	if err := db.Select("id").Where("firma_cliente_id = ?", id).Limit(1).Find(&bitacora).Error; err == nil && bitacora.ID != 0 {
		payload.BitacoraID = &bitacora.ID
	}
	ev, err := events.Nuevo(events.FirmaCompletada, payload)
	if err == nil {
		err = s.events.Publish(ctx, ev)
	}
	if err != nil {
		s.log.Warn("publish firma completada", zap.Uint("firma_id", id), zap.Error(err))
	}
	return nil
}

// GuardarFirmaTecnico creates or replaces the technician's own signature.
func (s *FirmaService) GuardarFirmaTecnico(ctx context.Context, tecnicoID uint, firmaBase64 string) (*models.Firma, error) {
	if err := validarFirma(firmaBase64); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var firma models.Firma
	res := db.Where("tecnico_id = ?", tecnicoID).Limit(1).Find(&firma)
	if res.Error != nil {
		return nil, s.persistencia("buscar firma tecnico", res.Error)
	}

	now := time.Now().UTC()
	if res.RowsAffected == 0 {
		firma = models.Firma{TecnicoID: &tecnicoID, FirmaBase64: firmaBase64, CompletadaEn: &now}
		if err := db.Create(&firma).Error; err != nil {
			return nil, s.persistencia("crear firma tecnico", err)
		}
		return &firma, nil
	}

	if err := db.Model(&firma).Updates(map[string]interface{}{
		"firma_base64":  firmaBase64,
		"completada_en": now,
	}).Error; err != nil {
		return nil, s.persistencia("actualizar firma tecnico", err)
	}
	return &firma, nil
}

// QR returns a PNG QR code pointing at the signing page of a client request.
func (s *FirmaService) QR(ctx context.Context, firmaID uint) ([]byte, error) {
	var firma models.Firma
	if err := first(s.db.WithContext(ctx), &firma, "Firma no encontrada", "id = ? AND token IS NOT NULL", firmaID); err != nil {
		return nil, s.persistencia("buscar firma qr", err)
	}
	if !firma.Pendiente() {
		return nil, utils.Conflict("La firma ya fue completada")
	}

	enlace := firma.URL
	if enlace == "" {
		enlace = enlaceFirma(s.baseURL, *firma.Token)
	}
	png, err := qrcode.Encode(enlace, qrcode.Medium, tamanoQR)
	if err != nil {
		s.log.Error("generar qr", zap.Uint("firma_id", firmaID), zap.Error(err))
		return nil, utils.Internal("No se pudo generar el código QR")
	}
	return png, nil
}
