package services

import (
	"context"
	"fmt"

	"bitacoras-backend/models"

	"go.uber.org/zap"
)

type validadorToken interface {
	ValidarToken(ctx context.Context, token string) (*models.Firma, error)
}

type buscadorBitacoraFirma interface {
	BitacoraPorFirma(ctx context.Context, firmaID uint) (*ResumenBitacora, error)
}

type buscadorNombre interface {
	NombrePorID(ctx context.Context, id uint) (string, error)
}

// PaginaFirma is what the signing page shows. Bitacora is nil when the log
// could not be resolved; the client can still sign.
type PaginaFirma struct {
	Token    string
	Firma    *models.Firma
	Bitacora *ResumenBitacora
	Tecnico  string
}

// RutaEncuesta is where the client goes after signing.
func (p *PaginaFirma) RutaEncuesta() string {
	if p.Bitacora == nil {
		return RutaEncuesta(nil)
	}
	return RutaEncuesta(&p.Bitacora.ID)
}

func RutaEncuesta(bitacoraID *uint) string {
	if bitacoraID == nil || *bitacoraID == 0 {
		return "/encuesta"
	}
	return fmt.Sprintf("/encuesta/%d", *bitacoraID)
}

// SesionFirma runs the lookups behind the signing page. Only the token check is
// fatal; the log and technician lookups degrade.
type SesionFirma struct {
	firmas    validadorToken
	bitacoras buscadorBitacoraFirma
	usuarios  buscadorNombre
	log       *zap.Logger
}

func NewSesionFirma(f validadorToken, b buscadorBitacoraFirma, u buscadorNombre, log *zap.Logger) *SesionFirma {
	return &SesionFirma{firmas: f, bitacoras: b, usuarios: u, log: log}
}

func (s *SesionFirma) Cargar(ctx context.Context, token string) (*PaginaFirma, error) {
	firma, err := s.firmas.ValidarToken(ctx, token)
	if err != nil {
		return nil, err
	}
	pagina := &PaginaFirma{Token: token, Firma: firma}

	bitacora, err := s.bitacoras.BitacoraPorFirma(ctx, firma.ID)
	if err != nil {
		s.log.Warn("signing page without log", zap.Uint("firma_id", firma.ID), zap.Error(err))
		return pagina, nil
	}
	pagina.Bitacora = bitacora

	nombre, err := s.usuarios.NombrePorID(ctx, bitacora.UsuarioID)
	if err != nil {
		s.log.Warn("technician name unavailable", zap.Uint("usuario_id", bitacora.UsuarioID), zap.Error(err))
		nombre = fmt.Sprintf("ID %d", bitacora.UsuarioID)
	}
	pagina.Tecnico = nombre
	return pagina, nil
}
