package services

import (
	"context"
	"time"

	"bitacoras-backend/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const intervaloAvisos = 24 * time.Hour

type enviadorEnlace interface {
	EnviarEnlaceFirma(ctx context.Context, firmaID uint) error
}

// RecordatorioService resends signing links of client signatures that are
// still pending, at most once per day per request.
type RecordatorioService struct {
	db          *gorm.DB
	notificador enviadorEnlace
	log         *zap.Logger
	espera      time.Duration
	ahora       func() time.Time
}

func NewRecordatorioService(db *gorm.DB, n enviadorEnlace, log *zap.Logger, espera time.Duration) *RecordatorioService {
	return &RecordatorioService{db: db, notificador: n, log: log, espera: espera, ahora: time.Now}
}

// Iniciar schedules EnviarRecordatorios with a standard five field cron spec.
func (s *RecordatorioService) Iniciar(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.EnviarRecordatorios(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	s.log.Info("reminder scheduler started", zap.String("spec", spec))
	return c, nil
}

func (s *RecordatorioService) Pendientes(ctx context.Context) ([]uint, error) {
	ahora := s.ahora().UTC()
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Firma{}).
		Where("token IS NOT NULL AND firma_base64 = ''").
		Where("created_at < ?", ahora.Add(-s.espera)).
		Where("ultimo_aviso IS NULL OR ultimo_aviso < ?", ahora.Add(-intervaloAvisos)).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// EnviarRecordatorios returns how many links were handed to the notifier
// without error.
func (s *RecordatorioService) EnviarRecordatorios(ctx context.Context) int {
	ids, err := s.Pendientes(ctx)
	if err != nil {
		s.log.Error("fetch pending signatures", zap.Error(err))
		return 0
	}

	enviados := 0
	for _, id := range ids {
		if err := s.notificador.EnviarEnlaceFirma(ctx, id); err != nil {
			s.log.Warn("signature reminder failed", zap.Uint("firma_id", id), zap.Error(err))
			continue
		}
		enviados++
	}
	s.log.Info("signature reminders processed", zap.Int("pendientes", len(ids)), zap.Int("enviados", enviados))
	return enviados
}
