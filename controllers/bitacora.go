package controllers

import (
	"fmt"
	"net/http"

	"bitacoras-backend/models"
	"bitacoras-backend/services"
	"bitacoras-backend/utils"

	"github.com/gin-gonic/gin"
)

type BitacoraController struct {
	Bitacoras *services.BitacoraService
	Reportes  *services.ReportePDFService
}

// Create stores a new log for the authenticated technician unless the payload
// names another one.
func (bc *BitacoraController) Create(c *gin.Context) {
	var input services.NuevaBitacora
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Datos inválidos: "+err.Error())
		return
	}
	if input.UsuarioID == 0 {
		if id, ok := utils.UsuarioActual(c); ok {
			input.UsuarioID = id
		}
	}

	bitacora, err := bc.Bitacoras.CrearBitacora(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, "Bitácora creada exitosamente", []*models.Bitacora{bitacora}, nil)
}

func (bc *BitacoraController) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bitacora, err := bc.Bitacoras.BitacoraPorID(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Bitácora obtenida exitosamente", []*models.Bitacora{bitacora}, nil)
}

// GetByCliente lists a client's logs. Query: page, limit, estado
// (pendientes|firmadas).
func (bc *BitacoraController) GetByCliente(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pagina, err := bc.Bitacoras.BitacorasCliente(c.Request.Context(), id,
		queryInt(c, "page", 1), queryInt(c, "limit", 10), c.Query("estado"))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	msg := "Bitácoras obtenidas exitosamente"
	if pagina.Meta.Total == 0 {
		msg = "No se encontraron bitácoras"
	}
	utils.Respond(c, http.StatusOK, msg, pagina.Bitacoras, pagina.Meta)
}

func (bc *BitacoraController) GetByTecnico(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	filas, err := bc.Bitacoras.BitacorasPorTecnico(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Bitácoras obtenidas exitosamente", filas, nil)
}

func (bc *BitacoraController) GetRango(c *gin.Context) {
	rango, ok := rangoFechas(c)
	if !ok {
		return
	}
	filas, err := bc.Bitacoras.BitacorasPorRango(c.Request.Context(), rango)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Bitácoras obtenidas exitosamente", filas, nil)
}

// GetPorFirma is public: the signing page uses it to show what is being signed.
func (bc *BitacoraController) GetPorFirma(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resumen, err := bc.Bitacoras.BitacoraPorFirma(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Bitácora obtenida exitosamente", []*services.ResumenBitacora{resumen}, nil)
}

// Reporte streams the PDF service report. ?tipo_servicio= overrides the
// service type label for this render only.
func (bc *BitacoraController) Reporte(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pdf, err := bc.Reportes.Generar(c.Request.Context(), id, c.Query("tipo_servicio"))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="reporte_bitacora_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
