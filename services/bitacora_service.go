package services

import (
	"context"
	"time"

	"bitacoras-backend/events"
	"bitacoras-backend/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EstadoPendientes = "pendientes"
	EstadoFirmadas   = "firmadas"
)

type BitacoraService struct {
	db      *gorm.DB
	events  events.Publisher
	log     *zap.Logger
	baseURL string
}

func NewBitacoraService(db *gorm.DB, pub events.Publisher, log *zap.Logger, baseURL string) *BitacoraService {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &BitacoraService{db: db, events: pub, log: log, baseURL: baseURL}
}

// FilaReporte is the flat projection used by the client and technician reports.
type FilaReporte struct {
	Fecha       time.Time       `json:"fecha"`
	Ticket      string          `json:"ticket"`
	Cliente     string          `json:"cliente"`
	Tecnico     string          `json:"tecnico"`
	HoraLlegada string          `json:"hora_llegada"`
	HoraSalida  string          `json:"hora_salida"`
	Servicio    string          `json:"servicio"`
	Modalidad   string          `json:"modalidad"`
	TipoHoras   string          `json:"tipo_horas"`
	Horas       decimal.Decimal `json:"horas"`
	Descripcion string          `json:"descripcion"`
}

type FilaVenta struct {
	FilaReporte
	Ventas string `json:"ventas"`
}

// ResumenBitacora is what a client sees of a log while signing it.
type ResumenBitacora struct {
	ID                  uint            `json:"id"`
	NoTicket            string          `json:"no_ticket"`
	FechaServicio       time.Time       `json:"fecha_servicio"`
	UsuarioID           uint            `json:"usuario_id"`
	DescripcionServicio string          `json:"descripcion_servicio"`
	Modalidad           string          `json:"modalidad"`
	HorasConsumidas     decimal.Decimal `json:"horas_consumidas"`
}

// BitacoraCliente is one row of the paginated client listing.
type BitacoraCliente struct {
	ID                  uint            `json:"id"`
	NoTicket            string          `json:"no_ticket"`
	FechaServicio       time.Time       `json:"fecha_servicio"`
	HoraLlegada         string          `json:"hora_llegada"`
	HoraSalida          string          `json:"hora_salida"`
	Modalidad           string          `json:"modalidad"`
	HorasConsumidas     decimal.Decimal `json:"horas_consumidas"`
	TipoHoras           string          `json:"tipo_horas"`
	Monto               decimal.Decimal `json:"monto"`
	DescripcionServicio string          `json:"descripcion_servicio"`
	Calificacion        *int            `json:"calificacion"`
	TipoServicio        string          `json:"tipo_servicio"`
	Sistema             string          `json:"sistema"`
	Equipo              string          `json:"equipo"`
	Tecnico             string          `json:"tecnico"`
	FirmaClienteID      *uint           `json:"firma_cliente_id"`
	FirmaURL            string          `json:"firma_url"`
	Firmada             bool            `json:"firmada"`
}

type PaginaBitacoras struct {
	Bitacoras []BitacoraCliente
	Meta      *utils.Meta
}

func (s *BitacoraService) publicar(ctx context.Context, tipo string, payload interface{}) {
	ev, err := events.Nuevo(tipo, payload)
	if err != nil {
		s.log.Error("build event", zap.String("tipo", tipo), zap.Error(err))
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish event", zap.String("tipo", tipo), zap.Error(err))
	}
}

// persistencia logs an unexpected database error and hides it behind msg.
func (s *BitacoraService) persistencia(op, msg string, err error) error {
	if isAppError(err) {
		return err
	}
	s.log.Error(op, zap.Error(err))
	return utils.Internal(msg)
}

func enlaceFirma(baseURL, token string) string {
	return baseURL + "/firma/" + token
}
