package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"bitacoras-backend/events"
	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envio struct {
	to, from, body string
}

type fakeMensajero struct {
	mu     sync.Mutex
	envios []envio
	err    error
}

func (m *fakeMensajero) Enviar(to, from, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.envios = append(m.envios, envio{to, from, body})
	if m.err != nil {
		return "", m.err
	}
	return "SM123", nil
}

// seedSolicitud stores a log with a pending client signature request and
// returns the request.
func seedSolicitud(t *testing.T, db *gorm.DB, telefono string) *models.Firma {
	t.Helper()
	cliente := seedCliente(t, db, "08011999000001")
	if telefono != cliente.Telefono {
		db.Model(cliente).Update("telefono", telefono)
	}
	tecnico := seedTecnico(t, db, "Carlos")
	cat := seedCatalogo(t, db)
	firma := seedFirmaCliente(t, db, "tok-aviso", "")
	seedBitacora(t, db, models.Bitacora{
		NoTicket: "T-77", ClienteID: cliente.ID, UsuarioID: tecnico.ID, TipoServicioID: cat.tipoServicio.ID,
		FechaServicio: dia(2024, 8, 1, 10), FirmaClienteID: &firma.ID,
	})
	return firma
}

func TestEnviarEnlaceFirma(t *testing.T) {
	tests := []struct {
		name       string
		whatsapp   string
		telefono   string
		errEnvio   error
		wantEnvios int
		wantTo     string
		wantEstado string
		wantAviso  bool
	}{
		{name: "sms", telefono: "9988-7766", wantEnvios: 1, wantTo: "+50499887766", wantEstado: "sent", wantAviso: true},
		{name: "whatsapp", whatsapp: "+15550001111", telefono: "99887766", wantEnvios: 1, wantTo: "whatsapp:+50499887766", wantEstado: "sent", wantAviso: true},
		{name: "fallo del proveedor", telefono: "99887766", errEnvio: errors.New("twilio down"), wantEnvios: 1, wantTo: "+50499887766", wantEstado: "failed"},
		{name: "telefono invalido", telefono: "12", wantEnvios: 0, wantEstado: "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			firma := seedSolicitud(t, db, tt.telefono)
			m := &fakeMensajero{err: tt.errEnvio}
			svc := NewNotificacionService(db, m, zap.NewNop(), "+15559990000", tt.whatsapp)

			_ = svc.EnviarEnlaceFirma(context.Background(), firma.ID)

			if len(m.envios) != tt.wantEnvios {
				t.Fatalf("envios = %d, want %d", len(m.envios), tt.wantEnvios)
			}
			if tt.wantEnvios > 0 {
				e := m.envios[0]
				if e.to != tt.wantTo {
					t.Errorf("to = %q, want %q", e.to, tt.wantTo)
				}
				if tt.whatsapp != "" && e.from != "whatsapp:"+tt.whatsapp {
					t.Errorf("from = %q", e.from)
				}
			}

			var logs []models.NotificacionLog
			db.Find(&logs)
			if len(logs) != 1 || logs[0].Estado != tt.wantEstado {
				t.Fatalf("logs = %+v", logs)
			}
			if tt.wantEstado == "sent" && logs[0].SID != "SM123" {
				t.Errorf("sid = %q", logs[0].SID)
			}

			var f models.Firma
			db.First(&f, firma.ID)
			if (f.UltimoAviso != nil) != tt.wantAviso {
				t.Errorf("ultimo_aviso = %v", f.UltimoAviso)
			}
		})
	}
}

func TestEnviarEnlaceFirmaCompletada(t *testing.T) {
	db := setupTestDB(t)
	firma := seedSolicitud(t, db, "99887766")
	db.Model(firma).Update("firma_base64", pngBase64(t))
	m := &fakeMensajero{}
	svc := NewNotificacionService(db, m, zap.NewNop(), "+15559990000", "")

	if err := svc.EnviarEnlaceFirma(context.Background(), firma.ID); err != nil {
		t.Fatalf("EnviarEnlaceFirma: %v", err)
	}
	if len(m.envios) != 0 {
		t.Error("completed request should not be notified")
	}
}

func TestEnviarEnlaceFirmaSinCliente(t *testing.T) {
	db := setupTestDB(t)
	firma := seedSolicitud(t, db, "99887766")
	if err := db.Where("1 = 1").Delete(&models.Cliente{}).Error; err != nil {
		t.Fatalf("delete cliente: %v", err)
	}
	m := &fakeMensajero{}
	svc := NewNotificacionService(db, m, zap.NewNop(), "+15559990000", "")

	err := svc.EnviarEnlaceFirma(context.Background(), firma.ID)
	if utils.StatusOf(err) != http.StatusNotFound {
		t.Errorf("err = %v, want 404", err)
	}
	if len(m.envios) != 0 {
		t.Error("nothing should be sent without a client")
	}
	var logs int64
	db.Model(&models.NotificacionLog{}).Count(&logs)
	if logs != 0 {
		t.Errorf("logs = %d, want 0", logs)
	}
}

func TestManejarFirmaSolicitada(t *testing.T) {
	db := setupTestDB(t)
	firma := seedSolicitud(t, db, "99887766")
	m := &fakeMensajero{}
	svc := NewNotificacionService(db, m, zap.NewNop(), "+15559990000", "")

	ev, err := events.Nuevo(events.FirmaSolicitada, events.FirmaSolicitadaPayload{FirmaID: firma.ID, URL: firma.URL})
	if err != nil {
		t.Fatalf("Nuevo: %v", err)
	}
	if err := svc.ManejarFirmaSolicitada(context.Background(), ev); err != nil {
		t.Fatalf("ManejarFirmaSolicitada: %v", err)
	}
	if len(m.envios) != 1 {
		t.Errorf("envios = %d", len(m.envios))
	}
}

type fakeNotificador struct {
	ids  []uint
	fail map[uint]bool
}

func (n *fakeNotificador) EnviarEnlaceFirma(_ context.Context, id uint) error {
	n.ids = append(n.ids, id)
	if n.fail[id] {
		return errors.New("fallo")
	}
	return nil
}

func TestRecordatorios(t *testing.T) {
	db := setupTestDB(t)
	ahora := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)

	crear := func(token, firma string, creada time.Time, aviso *time.Time) *models.Firma {
		f := seedFirmaCliente(t, db, token, firma)
		db.Model(f).Updates(map[string]interface{}{"created_at": creada, "ultimo_aviso": aviso})
		return f
	}
	hace := func(h int) time.Time { return ahora.Add(-time.Duration(h) * time.Hour) }
	avisoReciente := hace(2)
	avisoViejo := hace(30)

	vieja := crear("t1", "", hace(48), nil)
	crear("t2", "", hace(2), nil)             // too recent
	crear("t3", pngBase64(t), hace(72), nil)  // already signed
	crear("t4", "", hace(72), &avisoReciente) // reminded today
	reavisar := crear("t5", "", hace(96), &avisoViejo)

	tecnico := uint(1)
	db.Create(&models.Firma{TecnicoID: &tecnico, FirmaBase64: pngBase64(t)})

	n := &fakeNotificador{fail: map[uint]bool{reavisar.ID: true}}
	svc := NewRecordatorioService(db, n, zap.NewNop(), 24*time.Hour)
	svc.ahora = func() time.Time { return ahora }

	ids, err := svc.Pendientes(context.Background())
	if err != nil {
		t.Fatalf("Pendientes: %v", err)
	}
	if len(ids) != 2 || ids[0] != vieja.ID || ids[1] != reavisar.ID {
		t.Fatalf("pendientes = %v, want [%d %d]", ids, vieja.ID, reavisar.ID)
	}

	if got := svc.EnviarRecordatorios(context.Background()); got != 1 {
		t.Errorf("enviados = %d, want 1", got)
	}
	if len(n.ids) != 2 {
		t.Errorf("notifier called %d times", len(n.ids))
	}
}

func TestIniciarRecordatorios(t *testing.T) {
	svc := NewRecordatorioService(nil, &fakeNotificador{}, zap.NewNop(), time.Hour)
	if _, err := svc.Iniciar("not a cron"); err == nil {
		t.Error("expected an invalid spec to fail")
	}
	c, err := svc.Iniciar("0 9 * * *")
	if err != nil {
		t.Fatalf("Iniciar: %v", err)
	}
	c.Stop()
}
