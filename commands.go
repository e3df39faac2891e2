package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"bitacoras-backend/config"
	"bitacoras-backend/events"
	"bitacoras-backend/models"
	"bitacoras-backend/routes"
	"bitacoras-backend/services"
	"bitacoras-backend/templates"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type app struct {
	cfg config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg := config.Load()
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := config.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: logger, db: db}, nil
}

func (a *app) notificaciones() *services.NotificacionService {
	if a.cfg.TwilioAccountSID == "" || a.cfg.TwilioAuthToken == "" {
		return nil
	}
	m := services.NewTwilioMensajero(a.cfg.TwilioAccountSID, a.cfg.TwilioAuthToken)
	return services.NewNotificacionService(a.db, m, a.log, a.cfg.TwilioPhoneNumber, a.cfg.TwilioWhatsAppNumber)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			if a.cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}
			if err := config.Migrate(a.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if a.cfg.Production() {
				gin.SetMode(gin.ReleaseMode)
			}

			var pub events.Publisher = events.NoopPublisher{}
			if a.cfg.RabbitURL != "" {
				p, err := events.NewAMQPPublisher(a.cfg.RabbitURL, a.cfg.EventsQueue, a.log)
				if err != nil {
					a.log.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
				} else {
					defer p.Close()
					pub = p
				}
			}

			tmpl, err := templates.Load()
			if err != nil {
				return fmt.Errorf("load templates: %w", err)
			}

			r := routes.SetupRouter(routes.Deps{
				Config:    a.cfg,
				Log:       a.log,
				Redis:     config.NewRedisClient(a.cfg, a.log),
				Templates: tmpl,
				Bitacoras: services.NewBitacoraService(a.db, pub, a.log, a.cfg.BaseURL),
				Firmas:    services.NewFirmaService(a.db, pub, a.log, a.cfg.BaseURL),
				Usuarios:  services.NewUsuarioService(a.db, a.log),
				Reportes:  services.NewReportePDFService(a.db, a.log, a.cfg.LogoPath),
			})

			if notif := a.notificaciones(); notif != nil {
				rec := services.NewRecordatorioService(a.db, notif, a.log, a.cfg.ReminderAfter)
				c, err := rec.Iniciar(a.cfg.ReminderCron)
				if err != nil {
					return fmt.Errorf("reminder schedule: %w", err)
				}
				defer c.Stop()
			}

			if !a.cfg.Production() {
				printRoutes(r)
			}
			a.log.Info("server starting", zap.String("port", a.cfg.Port))
			return r.Run(":" + a.cfg.Port)
		},
	}
}

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume domain events and send signing links",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			if a.cfg.RabbitURL == "" {
				return errors.New("RABBITMQ_URL is required")
			}
			notif := a.notificaciones()
			if notif == nil {
				return errors.New("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer := events.NewConsumer(a.cfg.RabbitURL, a.cfg.EventsQueue, a.log)
			consumer.Handle(events.FirmaSolicitada, notif.ManejarFirmaSolicitada)

			a.log.Info("worker started", zap.String("queue", a.cfg.EventsQueue))
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var valorIndividual, valorPaquete, comision string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed the configuration row and an active survey",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			if err := config.Migrate(a.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			conf, err := seedConfiguracion(a.db, valorIndividual, valorPaquete, comision)
			if err != nil {
				return err
			}
			encuesta, err := seedEncuesta(a.db)
			if err != nil {
				return err
			}

			ok := color.New(color.FgGreen).SprintFunc()
			fmt.Println(ok("✓"), "tablas migradas")
			fmt.Println(ok("✓"), fmt.Sprintf("configuración %d (individual %s, paquete %s, comisión %s%%)",
				conf.ID, conf.ValorHoraIndividual.StringFixed(2), conf.ValorHoraPaquete.StringFixed(2), conf.Comision.String()))
			fmt.Println(ok("✓"), fmt.Sprintf("encuesta activa %d: %s", encuesta.ID, encuesta.Titulo))
			return nil
		},
	}

	cmd.Flags().StringVar(&valorIndividual, "valor-individual", "1000", "hourly rate for individual hours")
	cmd.Flags().StringVar(&valorPaquete, "valor-paquete", "800", "hourly rate for package hours")
	cmd.Flags().StringVar(&comision, "comision", "15", "commission percentage")
	return cmd
}

// seedConfiguracion creates the configuration row when missing. An existing
// row is never overwritten.
func seedConfiguracion(db *gorm.DB, individual, paquete, comision string) (*models.Configuracion, error) {
	var conf models.Configuracion
	err := db.First(&conf, models.ConfiguracionID).Error
	if err == nil {
		return &conf, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vi, err := decimal.NewFromString(individual)
	if err != nil {
		return nil, fmt.Errorf("valor-individual: %w", err)
	}
	vp, err := decimal.NewFromString(paquete)
	if err != nil {
		return nil, fmt.Errorf("valor-paquete: %w", err)
	}
	com, err := decimal.NewFromString(comision)
	if err != nil {
		return nil, fmt.Errorf("comision: %w", err)
	}

	conf = models.Configuracion{
		ID:                  models.ConfiguracionID,
		ValorHoraIndividual: vi,
		ValorHoraPaquete:    vp,
		Comision:            com,
	}
	if err := db.Create(&conf).Error; err != nil {
		return nil, err
	}
	return &conf, nil
}

func seedEncuesta(db *gorm.DB) (*models.Encuesta, error) {
	var encuesta models.Encuesta
	err := db.Where("activa = ?", true).First(&encuesta).Error
	if err == nil {
		return &encuesta, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	encuesta = models.Encuesta{Titulo: "Encuesta de satisfacción", Activa: true}
	if err := db.Create(&encuesta).Error; err != nil {
		return nil, err
	}
	return &encuesta, nil
}
