package services

import (
	"context"
	"strings"
	"time"

	"bitacoras-backend/events"
	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const msgErrorCrear = "Error interno del servidor al crear la bitácora"

var cien = decimal.NewFromInt(100)

// NuevaBitacora is the payload a technician submits after a visit. Monto is
// never accepted from the caller.
type NuevaBitacora struct {
	NoTicket            string          `json:"no_ticket" binding:"required"`
	FechaServicio       time.Time       `json:"fecha_servicio" binding:"required"`
	HoraLlegada         string          `json:"hora_llegada"`
	HoraSalida          string          `json:"hora_salida"`
	Modalidad           string          `json:"modalidad" binding:"required"`
	HorasConsumidas     decimal.Decimal `json:"horas_consumidas"`
	TipoHoras           string          `json:"tipo_horas"`
	DescripcionServicio string          `json:"descripcion_servicio"`
	Comentarios         string          `json:"comentarios"`
	Ventas              string          `json:"ventas"`
	NombresCapacitados  string          `json:"nombres_capacitados"`
	FirmaTecnico        bool            `json:"firma_tecnico"`
	ClienteID           uint            `json:"cliente_id" binding:"required"`
	UsuarioID           uint            `json:"usuario_id"`
	TipoServicioID      uint            `json:"tipo_servicio_id" binding:"required"`
	SistemaID           *uint           `json:"sistema_id"`
	EquipoID            *uint           `json:"equipo_id"`
}

// CalcularMonto returns horas × (valor + valor × comision / 100), comision
// being a percentage.
func CalcularMonto(horas, valor, comision decimal.Decimal) decimal.Decimal {
	tarifa := valor.Add(valor.Mul(comision).Div(cien))
	return horas.Mul(tarifa).Round(2)
}

// columnasSaldo returns the client balance columns debited for a tipo_horas
// and the hourly rate that applies to it.
func columnasSaldo(tipoHoras string, cfg *models.Configuracion) (horas, monto string, valor decimal.Decimal, ok bool) {
	switch tipoHoras {
	case models.TipoHorasIndividual:
		return "horas_individuales", "monto_individuales", cfg.ValorHoraIndividual, true
	case models.TipoHorasPaquete:
		return "horas_paquetes", "monto_paquetes", cfg.ValorHoraPaquete, true
	}
	return "", "", decimal.Zero, false
}

func validarTipoHoras(tipo string) error {
	if tipo != models.TipoHorasIndividual && tipo != models.TipoHorasPaquete {
		return utils.BadRequest("Tipo de horas inválido. Debe ser 'Paquete' o 'Individual'")
	}
	return nil
}

// resolverObjetivo turns the optional equipment and system references into a
// single Objetivo. Both at once is rejected, and whichever is given must be
// active.
func resolverObjetivo(tx *gorm.DB, equipoID, sistemaID *uint) (models.Objetivo, error) {
	switch {
	case equipoID != nil && sistemaID != nil:
		return models.Objetivo{}, utils.BadRequest("Solo se puede indicar un equipo o un sistema, no ambos")
	case equipoID != nil:
		var equipo models.Equipo
		if err := first(tx, &equipo, "Equipo no encontrado", *equipoID); err != nil {
			return models.Objetivo{}, err
		}
		if !equipo.Activo {
			return models.Objetivo{}, utils.Unauthorized("El equipo no está activo")
		}
		return models.Objetivo{Tipo: models.ObjetivoEquipo, ID: equipo.ID, Etiqueta: equipo.Equipo}, nil
	case sistemaID != nil:
		var sistema models.Sistema
		if err := first(tx, &sistema, "Sistema no encontrado", *sistemaID); err != nil {
			return models.Objetivo{}, err
		}
		if !sistema.Activo {
			return models.Objetivo{}, utils.Unauthorized("El sistema no está activo")
		}
		return models.Objetivo{Tipo: models.ObjetivoSistema, ID: sistema.ID, Etiqueta: sistema.Sistema}, nil
	}
	return models.Objetivo{}, nil
}

// CrearBitacora validates the payload, stores the log with its pending client
// signature request and debits the client balance, all in one transaction.
// Balances are allowed to go negative.
func (s *BitacoraService) CrearBitacora(ctx context.Context, in NuevaBitacora) (*models.Bitacora, error) {
	if !in.HorasConsumidas.IsPositive() {
		return nil, utils.BadRequest("Las horas consumidas deben ser mayores a cero")
	}
	if err := validarTipoHoras(in.TipoHoras); err != nil {
		return nil, err
	}
	if in.EquipoID != nil && in.SistemaID != nil {
		return nil, utils.BadRequest("Solo se puede indicar un equipo o un sistema, no ambos")
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, s.persistencia("begin crear bitacora", msgErrorCrear, tx.Error)
	}
	committed := false
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
		if !committed {
			tx.Rollback()
		}
	}()

	var cliente models.Cliente
	if err := first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &cliente, "Cliente no encontrado", in.ClienteID); err != nil {
		return nil, s.persistencia("buscar cliente", msgErrorCrear, err)
	}

	var encuesta models.Encuesta
	if err := first(tx.Select("id"), &encuesta, "No hay una encuesta activa", "activa = ?", true); err != nil {
		return nil, s.persistencia("buscar encuesta activa", msgErrorCrear, err)
	}

	var tecnico models.Usuario
	if err := first(tx, &tecnico, "Técnico no encontrado", in.UsuarioID); err != nil {
		return nil, s.persistencia("buscar tecnico", msgErrorCrear, err)
	}

	if !in.FirmaTecnico {
		return nil, utils.Unauthorized("La firma del tecnico es obligatoria")
	}

	objetivo, err := resolverObjetivo(tx, in.EquipoID, in.SistemaID)
	if err != nil {
		return nil, s.persistencia("resolver equipo o sistema", msgErrorCrear, err)
	}

	var tipoServicio models.TipoServicio
	if err := first(tx.Select("id"), &tipoServicio, "Tipo de servicio no encontrado", in.TipoServicioID); err != nil {
		return nil, s.persistencia("buscar tipo de servicio", msgErrorCrear, err)
	}

	var cfg models.Configuracion
	if err := first(tx, &cfg, "Configuración no encontrada", models.ConfiguracionID); err != nil {
		if isAppError(err) {
			s.log.Error("configuracion singleton missing")
			return nil, utils.Internal(msgErrorCrear)
		}
		return nil, s.persistencia("buscar configuracion", msgErrorCrear, err)
	}

	colHoras, colMonto, valor, _ := columnasSaldo(in.TipoHoras, &cfg)
	monto := CalcularMonto(in.HorasConsumidas, valor, cfg.Comision)

	token := uuid.NewString()
	firma := models.Firma{Token: &token, URL: enlaceFirma(s.baseURL, token)}
	if err := tx.Create(&firma).Error; err != nil {
		return nil, s.persistencia("crear firma cliente", msgErrorCrear, err)
	}

	bitacora := models.Bitacora{
		NoTicket:            strings.TrimSpace(in.NoTicket),
		FechaServicio:       in.FechaServicio.UTC(),
		HoraLlegada:         in.HoraLlegada,
		HoraSalida:          in.HoraSalida,
		Modalidad:           in.Modalidad,
		HorasConsumidas:     in.HorasConsumidas,
		TipoHoras:           in.TipoHoras,
		DescripcionServicio: in.DescripcionServicio,
		Comentarios:         in.Comentarios,
		Ventas:              in.Ventas,
		NombresCapacitados:  in.NombresCapacitados,
		Monto:               monto,
		FirmaTecnico:        true,
		ClienteID:           cliente.ID,
		UsuarioID:           tecnico.ID,
		TipoServicioID:      tipoServicio.ID,
		EquipoID:            objetivo.EquipoID(),
		SistemaID:           objetivo.SistemaID(),
		FirmaClienteID:      &firma.ID,
	}
	if err := tx.Create(&bitacora).Error; err != nil {
		return nil, s.persistencia("crear bitacora", msgErrorCrear, err)
	}

	if err := tx.Model(&models.Cliente{}).Where("id = ?", cliente.ID).
		Updates(map[string]interface{}{
			colHoras: gorm.Expr(colHoras+" - ?", in.HorasConsumidas),
			colMonto: gorm.Expr(colMonto+" - ?", monto),
		}).Error; err != nil {
		return nil, s.persistencia("debitar saldo cliente", msgErrorCrear, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, s.persistencia("commit crear bitacora", msgErrorCrear, err)
	}
	committed = true

	s.publicar(ctx, events.BitacoraCreada, events.BitacoraCreadaPayload{
		BitacoraID: bitacora.ID,
		ClienteID:  cliente.ID,
		UsuarioID:  tecnico.ID,
		TipoHoras:  bitacora.TipoHoras,
		Horas:      bitacora.HorasConsumidas.String(),
		Monto:      monto.String(),
	})
	s.publicar(ctx, events.FirmaSolicitada, events.FirmaSolicitadaPayload{
		FirmaID:    firma.ID,
		BitacoraID: bitacora.ID,
		ClienteID:  cliente.ID,
		URL:        firma.URL,
	})

	return &bitacora, nil
}
