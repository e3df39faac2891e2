package services

import (
	"context"
	"strings"

	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"gorm.io/gorm"
)

const (
	msgErrorConsulta    = "Error al consultar las bitácoras"
	msgBitacoraNoExiste = "No se encontro la bitacora"
)

const columnasReporte = `bitacoras.fecha_servicio AS fecha,
	bitacoras.no_ticket AS ticket,
	clientes.empresa AS cliente,
	usuarios.nombre AS tecnico,
	bitacoras.hora_llegada AS hora_llegada,
	bitacoras.hora_salida AS hora_salida,
	tipo_servicios.descripcion AS servicio,
	bitacoras.modalidad AS modalidad,
	bitacoras.tipo_horas AS tipo_horas,
	bitacoras.horas_consumidas AS horas,
	bitacoras.descripcion_servicio AS descripcion`

func (s *BitacoraService) reporte(ctx context.Context, rango utils.Rango) *gorm.DB {
	return s.db.WithContext(ctx).Table("bitacoras").
		Joins("JOIN clientes ON clientes.id = bitacoras.cliente_id").
		Joins("JOIN usuarios ON usuarios.id = bitacoras.usuario_id").
		Joins("LEFT JOIN tipo_servicios ON tipo_servicios.id = bitacoras.tipo_servicio_id").
		Where("bitacoras.fecha_servicio >= ? AND bitacoras.fecha_servicio < ?", rango.Desde, rango.Hasta).
		Order("bitacoras.fecha_servicio DESC")
}

// BitacorasClientePorRTN returns the report rows of the client with the given
// RTN inside the range. An empty result is a 404.
func (s *BitacoraService) BitacorasClientePorRTN(ctx context.Context, rtn string, rango utils.Rango) ([]FilaReporte, error) {
	rtn = strings.TrimSpace(rtn)
	if rtn == "" {
		return nil, utils.BadRequest("Se requiere el RTN del cliente")
	}

	var cliente models.Cliente
	if err := first(s.db.WithContext(ctx).Select("id"), &cliente, "Cliente no encontrado", "rtn = ?", rtn); err != nil {
		return nil, s.persistencia("buscar cliente por rtn", msgErrorConsulta, err)
	}

	var filas []FilaReporte
	if err := s.reporte(ctx, rango).Select(columnasReporte).
		Where("bitacoras.cliente_id = ?", cliente.ID).
		Scan(&filas).Error; err != nil {
		return nil, s.persistencia("bitacoras cliente por rtn", msgErrorConsulta, err)
	}
	if len(filas) == 0 {
		return nil, utils.NotFound("No se encontraron bitácoras para el cliente en el rango de fechas especificado")
	}
	return filas, nil
}

func (s *BitacoraService) tecnicoPorNombre(ctx context.Context, nombre string) (*models.Usuario, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, utils.BadRequest("Se requiere el nombre del técnico")
	}
	var tecnico models.Usuario
	if err := first(s.db.WithContext(ctx), &tecnico, "Técnico no encontrado", "nombre = ?", nombre); err != nil {
		return nil, s.persistencia("buscar tecnico por nombre", msgErrorConsulta, err)
	}
	return &tecnico, nil
}

func (s *BitacoraService) BitacorasTecnicoPorNombre(ctx context.Context, nombre string, rango utils.Rango) ([]FilaReporte, error) {
	tecnico, err := s.tecnicoPorNombre(ctx, nombre)
	if err != nil {
		return nil, err
	}

	var filas []FilaReporte
	if err := s.reporte(ctx, rango).Select(columnasReporte).
		Where("bitacoras.usuario_id = ?", tecnico.ID).
		Scan(&filas).Error; err != nil {
		return nil, s.persistencia("bitacoras tecnico", msgErrorConsulta, err)
	}
	if len(filas) == 0 {
		return nil, utils.NotFound("No se encontraron bitácoras para el técnico en el rango de fechas especificado")
	}
	return filas, nil
}

// VentasTecnicoPorNombre is BitacorasTecnicoPorNombre restricted to logs with
// sales notes.
func (s *BitacoraService) VentasTecnicoPorNombre(ctx context.Context, nombre string, rango utils.Rango) ([]FilaVenta, error) {
	tecnico, err := s.tecnicoPorNombre(ctx, nombre)
	if err != nil {
		return nil, err
	}

	var filas []FilaVenta
	if err := s.reporte(ctx, rango).Select(columnasReporte+", bitacoras.ventas AS ventas").
		Where("bitacoras.usuario_id = ?", tecnico.ID).
		Where("bitacoras.ventas <> ''").
		Scan(&filas).Error; err != nil {
		return nil, s.persistencia("ventas tecnico", msgErrorConsulta, err)
	}
	if len(filas) == 0 {
		return nil, utils.NotFound("No se encontraron ventas para el técnico en el rango de fechas especificado")
	}
	return filas, nil
}

func (s *BitacoraService) BitacorasPorRango(ctx context.Context, rango utils.Rango) ([]FilaReporte, error) {
	filas := []FilaReporte{}
	if err := s.reporte(ctx, rango).Select(columnasReporte).Scan(&filas).Error; err != nil {
		return nil, s.persistencia("bitacoras por rango", msgErrorConsulta, err)
	}
	if len(filas) == 0 {
		return nil, utils.NotFound("No se encontraron bitácoras registradas en el rango de fechas ingresado")
	}
	return filas, nil
}

func (s *BitacoraService) BitacorasPorTecnico(ctx context.Context, usuarioID uint) ([]FilaReporte, error) {
	filas := []FilaReporte{}
	err := s.db.WithContext(ctx).Table("bitacoras").
		Select(columnasReporte).
		Joins("JOIN clientes ON clientes.id = bitacoras.cliente_id").
		Joins("JOIN usuarios ON usuarios.id = bitacoras.usuario_id").
		Joins("LEFT JOIN tipo_servicios ON tipo_servicios.id = bitacoras.tipo_servicio_id").
		Where("bitacoras.usuario_id = ?", usuarioID).
		Order("bitacoras.fecha_servicio DESC").
		Scan(&filas).Error
	if err != nil {
		return nil, s.persistencia("bitacoras por tecnico", msgErrorConsulta, err)
	}
	if len(filas) == 0 {
		return nil, utils.NotFound("No se encontraron bitácoras registradas con el técnico")
	}
	return filas, nil
}

// BitacorasCliente lists a client's logs a page at a time. estado narrows the
// list to logs whose client signature is still pending or already signed.
func (s *BitacoraService) BitacorasCliente(ctx context.Context, clienteID uint, page, limit int, estado string) (*PaginaBitacoras, error) {
	page, limit = Paginacion(page, limit)

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Table("bitacoras").
			Joins("LEFT JOIN firmas ON firmas.id = bitacoras.firma_cliente_id").
			Where("bitacoras.cliente_id = ?", clienteID)
		switch estado {
		case EstadoPendientes:
			q = q.Where("firmas.firma_base64 = ''")
		case EstadoFirmadas:
			q = q.Where("firmas.firma_base64 <> ''")
		}
		return q
	}
	switch estado {
	case "", EstadoPendientes, EstadoFirmadas:
	default:
		return nil, utils.BadRequest("Estado inválido, use 'pendientes' o 'firmadas'")
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, s.persistencia("contar bitacoras cliente", msgErrorConsulta, err)
	}

	filas := []BitacoraCliente{}
	err := base().
		Select(`bitacoras.id, bitacoras.no_ticket, bitacoras.fecha_servicio, bitacoras.hora_llegada,
			bitacoras.hora_salida, bitacoras.modalidad, bitacoras.horas_consumidas, bitacoras.tipo_horas,
			bitacoras.monto, bitacoras.descripcion_servicio, bitacoras.calificacion,
			tipo_servicios.tipo_servicio AS tipo_servicio,
			sistemas.sistema AS sistema,
			equipos.equipo AS equipo,
			usuarios.nombre AS tecnico,
			bitacoras.firma_cliente_id,
			firmas.url AS firma_url,
			CASE WHEN firmas.firma_base64 <> '' THEN 1 ELSE 0 END AS firmada`).
		Joins("LEFT JOIN tipo_servicios ON tipo_servicios.id = bitacoras.tipo_servicio_id").
		Joins("LEFT JOIN sistemas ON sistemas.id = bitacoras.sistema_id").
		Joins("LEFT JOIN equipos ON equipos.id = bitacoras.equipo_id").
		Joins("LEFT JOIN usuarios ON usuarios.id = bitacoras.usuario_id").
		Order("bitacoras.fecha_servicio DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&filas).Error
	if err != nil {
		return nil, s.persistencia("bitacoras cliente", msgErrorConsulta, err)
	}

	return &PaginaBitacoras{Bitacoras: filas, Meta: utils.NewMeta(total, page, limit)}, nil
}

// BitacoraPorID loads a log with every relation the detail view and the PDF
// need.
func (s *BitacoraService) BitacoraPorID(ctx context.Context, id uint) (*models.Bitacora, error) {
	var b models.Bitacora
	err := first(s.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Usuario").
		Preload("TipoServicio").
		Preload("Sistema").
		Preload("Equipo").
		Preload("FirmaCliente"), &b, msgBitacoraNoExiste, id)
	if err != nil {
		return nil, s.persistencia("bitacora por id", msgErrorConsulta, err)
	}
	return &b, nil
}

func (s *BitacoraService) BitacoraPorFirma(ctx context.Context, firmaID uint) (*ResumenBitacora, error) {
	var r ResumenBitacora
	res := s.db.WithContext(ctx).Model(&models.Bitacora{}).
		Select("id, no_ticket, fecha_servicio, usuario_id, descripcion_servicio, modalidad, horas_consumidas").
		Where("firma_cliente_id = ?", firmaID).
		Limit(1).
		Scan(&r)
	if res.Error != nil {
		return nil, s.persistencia("bitacora por firma", msgErrorConsulta, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, utils.NotFound("No se encontró la bitácora asociada a la firma")
	}
	return &r, nil
}

func (s *BitacoraService) ActualizarCalificacion(ctx context.Context, id uint, calificacion int) error {
	if calificacion < 1 || calificacion > 10 {
		return utils.BadRequest("La calificación debe estar entre 1 y 10")
	}
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Bitacora{}).
		Where("id = ? AND firma_cliente_id IN (?)", id,
			db.Model(&models.Firma{}).Select("id").Where("firma_base64 <> ''")).
		Update("calificacion", calificacion)
	if res.Error != nil {
		return s.persistencia("actualizar calificacion", "Error al actualizar la calificación", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(&models.Bitacora{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return s.persistencia("actualizar calificacion", "Error al actualizar la calificación", err)
	}
	if count == 0 {
		return utils.NotFound(msgBitacoraNoExiste)
	}
	// only signed logs can be rated
	return utils.Conflict("La bitácora aún no ha sido firmada por el cliente")
}
