package services

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedReporte(t *testing.T, db *gorm.DB, firmaCliente string) *models.Bitacora {
	t.Helper()
	cliente := seedCliente(t, db, "08011999000001")
	tecnico := seedTecnico(t, db, "Carlos")
	cat := seedCatalogo(t, db)
	firma := seedFirmaCliente(t, db, "tok-pdf", firmaCliente)

	if err := db.Create(&models.Firma{TecnicoID: &tecnico.ID, FirmaBase64: pngBase64(t)}).Error; err != nil {
		t.Fatalf("seed firma tecnico: %v", err)
	}

	return seedBitacora(t, db, models.Bitacora{
		NoTicket:            "T-500",
		FechaServicio:       dia(2024, 7, 10, 14),
		HoraLlegada:         "09:15",
		HoraSalida:          "2024-07-10T17:45:00Z",
		HorasConsumidas:     dec("2.5"),
		Monto:               dec("2875"),
		DescripcionServicio: strings.Repeat("Configuración del sistema de facturación y capacitación al personal. ", 8),
		Ventas:              "Renovación de licencia anual",
		Comentarios:         "Cliente satisfecho",
		NombresCapacitados:  "Luis, Marta",
		ClienteID:           cliente.ID,
		UsuarioID:           tecnico.ID,
		TipoServicioID:      cat.tipoServicio.ID,
		SistemaID:           &cat.sistema.ID,
		FirmaClienteID:      &firma.ID,
	})
}

func TestGenerarReportePDF(t *testing.T) {
	tests := []struct {
		name         string
		firmaCliente string
	}{
		{"con firma del cliente", "valid"},
		{"sin firma del cliente", ""},
		{"firma del cliente corrupta", "data:image/png;base64,@@no-es-base64@@"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			firma := tt.firmaCliente
			if firma == "valid" {
				firma = pngBase64(t)
			}
			b := seedReporte(t, db, firma)
			svc := NewReportePDFService(db, zap.NewNop(), "")

			out, err := svc.Generar(context.Background(), b.ID, "")
			if err != nil {
				t.Fatalf("Generar: %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF")) {
				t.Errorf("output is not a PDF: %q", out[:min(len(out), 16)])
			}
		})
	}
}

func TestGenerarReporteConLogo(t *testing.T) {
	db := setupTestDB(t)
	b := seedReporte(t, db, "")

	logo, err := DecodificarImagen(pngBase64(t))
	if err != nil {
		t.Fatalf("decode logo: %v", err)
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, logo, 0o600); err != nil {
		t.Fatalf("write logo: %v", err)
	}

	out, err := NewReportePDFService(db, zap.NewNop(), path).Generar(context.Background(), b.ID, "")
	if err != nil {
		t.Fatalf("Generar: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerarReporteNoEncontrado(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportePDFService(db, zap.NewNop(), "")

	_, err := svc.Generar(context.Background(), 404, "")
	if utils.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
	if err.Error() != "Bitácora no encontrada" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCargarReporte(t *testing.T) {
	db := setupTestDB(t)
	b := seedReporte(t, db, "")
	svc := NewReportePDFService(db, zap.NewNop(), "")
	generado := time.Date(2024, 7, 11, 8, 0, 0, 0, time.UTC)
	svc.ahora = func() time.Time { return generado }

	datos, err := svc.cargar(context.Background(), b.ID, "")
	if err != nil {
		t.Fatalf("cargar: %v", err)
	}
	if datos.tipoServicio != "Soporte" {
		t.Errorf("label = %q, want the stored service type", datos.tipoServicio)
	}
	if datos.objetivo.Tipo != models.ObjetivoSistema || datos.objetivo.EtiquetaSistema() != "POS Restaurantes" {
		t.Errorf("objetivo = %+v", datos.objetivo)
	}
	if datos.objetivo.EtiquetaEquipo() != "" {
		t.Errorf("equipo label = %q", datos.objetivo.EtiquetaEquipo())
	}
	if datos.firmaTecnico == "" {
		t.Error("technician signature not loaded")
	}
	if datos.firmaCliente != "" {
		t.Error("pending client signature should be empty")
	}
	if !datos.generado.Equal(generado) {
		t.Errorf("generado = %s", datos.generado)
	}

	override, err := svc.cargar(context.Background(), b.ID, "  Mantenimiento preventivo ")
	if err != nil {
		t.Fatalf("cargar override: %v", err)
	}
	if override.tipoServicio != "Mantenimiento preventivo" {
		t.Errorf("label = %q, want the explicit one", override.tipoServicio)
	}
}
