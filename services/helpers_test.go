package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"bitacoras-backend/config"
	"bitacoras-backend/events"
	"bitacoras-backend/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: config.NowUTC,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type recordingPublisher struct {
	mu      sync.Mutex
	eventos []events.Evento
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Evento) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventos = append(p.eventos, ev)
	return nil
}

func (p *recordingPublisher) tipos() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.eventos))
	for _, ev := range p.eventos {
		out = append(out, ev.Tipo)
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dia(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func seedCliente(t *testing.T, db *gorm.DB, rtn string) *models.Cliente {
	t.Helper()
	c := &models.Cliente{
		Empresa:           "Empresa " + rtn,
		Responsable:       "Ana Responsable",
		RTN:               rtn,
		Telefono:          "99887766",
		Correo:            "contacto@example.com",
		HorasIndividuales: dec("10"),
		MontoIndividuales: dec("11500"),
		HorasPaquetes:     dec("20"),
		MontoPaquetes:     dec("18400"),
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to seed cliente: %v", err)
	}
	return c
}

func seedTecnico(t *testing.T, db *gorm.DB, nombre string) *models.Usuario {
	t.Helper()
	u := &models.Usuario{
		Nombre:   nombre,
		Correo:   nombre + "@example.com",
		Password: "secreto",
		Rol:      models.RolTecnico,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed tecnico: %v", err)
	}
	return u
}

type catalogo struct {
	tipoServicio *models.TipoServicio
	equipo       *models.Equipo
	sistema      *models.Sistema
}

func seedCatalogo(t *testing.T, db *gorm.DB) catalogo {
	t.Helper()
	c := catalogo{
		tipoServicio: &models.TipoServicio{TipoServicio: "Soporte", Descripcion: "Soporte técnico"},
		equipo:       &models.Equipo{Equipo: "Impresora fiscal"},
		sistema:      &models.Sistema{Sistema: "POS Restaurantes"},
	}
	for _, v := range []interface{}{c.tipoServicio, c.equipo, c.sistema} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("failed to seed catalogo: %v", err)
		}
	}
	return c
}

// seedConfiguracion stores rates of 1000 (individual) and 800 (package) with a
// 15% commission.
func seedConfiguracion(t *testing.T, db *gorm.DB) {
	t.Helper()
	cfg := &models.Configuracion{
		ID:                  models.ConfiguracionID,
		ValorHoraIndividual: dec("1000"),
		ValorHoraPaquete:    dec("800"),
		Comision:            dec("15"),
	}
	if err := db.Create(cfg).Error; err != nil {
		t.Fatalf("failed to seed configuracion: %v", err)
	}
}

func seedEncuesta(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Create(&models.Encuesta{Titulo: "Satisfacción", Activa: true}).Error; err != nil {
		t.Fatalf("failed to seed encuesta: %v", err)
	}
}

// seedFirmaCliente stores a client signature request. An empty firma leaves it
// pending.
func seedFirmaCliente(t *testing.T, db *gorm.DB, token, firma string) *models.Firma {
	t.Helper()
	f := &models.Firma{Token: &token, FirmaBase64: firma, URL: "http://localhost/firma/" + token}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("failed to seed firma: %v", err)
	}
	return f
}

func seedBitacora(t *testing.T, db *gorm.DB, b models.Bitacora) *models.Bitacora {
	t.Helper()
	if b.NoTicket == "" {
		b.NoTicket = "T-1"
	}
	if b.TipoHoras == "" {
		b.TipoHoras = models.TipoHorasIndividual
	}
	if b.HorasConsumidas.IsZero() {
		b.HorasConsumidas = dec("1")
	}
	if b.Modalidad == "" {
		b.Modalidad = "Presencial"
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("failed to seed bitacora: %v", err)
	}
	return &b
}

// pngBase64 returns a small opaque PNG as a data URL.
func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		img.Set(x, 2, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newBitacoraService(db *gorm.DB) (*BitacoraService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewBitacoraService(db, pub, zap.NewNop(), "http://localhost:8080"), pub
}
