package routes

import (
	"html/template"
	"time"

	"bitacoras-backend/config"
	"bitacoras-backend/controllers"
	"bitacoras-backend/services"
	"bitacoras-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps carries everything the router needs. Redis and Templates may be nil.
type Deps struct {
	Config    config.Config
	Log       *zap.Logger
	Redis     *redis.Client
	Templates *template.Template

	Bitacoras *services.BitacoraService
	Firmas    *services.FirmaService
	Usuarios  *services.UsuarioService
	Reportes  *services.ReportePDFService
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CorsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(d.Log))

	if d.Templates != nil {
		r.SetHTMLTemplate(d.Templates)
	}

	authController := &controllers.AuthController{
		Usuarios:  d.Usuarios,
		JWTSecret: d.Config.JWTSecret,
		JWTExpiry: d.Config.JWTExpiry,
		Secure:    d.Config.Production(),
	}
	bitacoraController := &controllers.BitacoraController{Bitacoras: d.Bitacoras, Reportes: d.Reportes}
	firmaController := &controllers.FirmaController{
		Firmas: d.Firmas,
		Sesion: services.NewSesionFirma(d.Firmas, d.Bitacoras, d.Usuarios, d.Log),
	}
	encuestaController := &controllers.EncuestaController{Bitacoras: d.Bitacoras}
	reportController := &controllers.ReportController{Bitacoras: d.Bitacoras}

	authRequired := utils.AuthMiddleware(d.Config.JWTSecret)
	// Links sent to clients are public, so they get a per-IP limit.
	limited := utils.RateLimit(d.Redis, "rl:publico", d.Config.RateLimitPerMinute, time.Minute, d.Log)

	auth := r.Group("/auth")
	{
		auth.POST("/login", utils.RateLimit(d.Redis, "rl:login", d.Config.RateLimitPerMinute, time.Minute, d.Log), authController.Login)
		auth.GET("/me", authRequired, authController.Me)
	}

	// Client facing pages
	public := r.Group("", limited)
	{
		public.GET("/firma/:token", firmaController.Pagina)
		public.GET("/encuesta", encuestaController.Pagina)
		public.GET("/encuesta/:id", encuestaController.Pagina)
	}

	publicAPI := r.Group("/api", limited)
	{
		publicAPI.GET("/firmas/validar/:token", firmaController.Validar)
		publicAPI.POST("/firmas/finalizar", firmaController.Finalizar)
		publicAPI.GET("/bitacoras/por-firma/:id", bitacoraController.GetPorFirma)
		publicAPI.GET("/usuarios/nombre/:id", authController.Nombre)
		publicAPI.POST("/encuestas/:id", encuestaController.Responder)
	}

	api := r.Group("/api", authRequired)
	{
		bitacoras := api.Group("/bitacoras")
		{
			bitacoras.POST("", bitacoraController.Create)
			bitacoras.GET("/rango", bitacoraController.GetRango)
			bitacoras.GET("/cliente/:id", bitacoraController.GetByCliente)
			bitacoras.GET("/tecnico/:id", bitacoraController.GetByTecnico)
			bitacoras.GET("/:id", bitacoraController.GetByID)
			bitacoras.GET("/:id/reporte", bitacoraController.Reporte)
		}

		firmas := api.Group("/firmas")
		{
			firmas.PUT("/tecnico", firmaController.GuardarTecnico)
			firmas.GET("/:id/qr", firmaController.QR)
		}

		reportes := api.Group("/reportes")
		{
			reportes.GET("/cliente-bitacoras/previsualizacion", reportController.PreviewCliente)
			reportes.GET("/cliente-bitacoras/excel", reportController.ExcelCliente)
			reportes.GET("/tecnico-bitacoras", reportController.Tecnico)
			reportes.GET("/tecnico-ventas", reportController.VentasTecnico)
		}
	}

	return r
}
