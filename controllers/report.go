// controllers/report.go
package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"bitacoras-backend/services"
	"bitacoras-backend/utils"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController handles the client and technician reports
type ReportController struct {
	Bitacoras *services.BitacoraService
}

// parametrosCliente checks the preview parameters. Missing dates and missing
// RTN are both client errors, never an empty result.
func parametrosCliente(c *gin.Context) (utils.Rango, string, bool) {
	if strings.TrimSpace(c.Query("fechaInicio")) == "" || strings.TrimSpace(c.Query("fechaFinal")) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Se requieren ambas fechas")
		return utils.Rango{}, "", false
	}
	rtn := strings.TrimSpace(c.Query("RTN"))
	if rtn == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Se requiere el RTN del cliente")
		return utils.Rango{}, "", false
	}
	rango, ok := rangoFechas(c)
	return rango, rtn, ok
}

// PreviewCliente returns the client's logs in the range. results holds a single
// element: the list of rows.
func (rc *ReportController) PreviewCliente(c *gin.Context) {
	rango, rtn, ok := parametrosCliente(c)
	if !ok {
		return
	}

	filas, err := rc.Bitacoras.BitacorasClientePorRTN(c.Request.Context(), rtn, rango)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Bitácoras recuperadas con éxito", []interface{}{filas}, nil)
}

func (rc *ReportController) ExcelCliente(c *gin.Context) {
	rango, rtn, ok := parametrosCliente(c)
	if !ok {
		return
	}

	filas, err := rc.Bitacoras.BitacorasClientePorRTN(c.Request.Context(), rtn, rango)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	data, err := services.ExportarFilasExcel(filas)
	if err != nil {
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "No se pudo generar el archivo Excel")
		return
	}

	nombre := fmt.Sprintf("bitacoras_%s_%s.xlsx", rtn, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, mimeXLSX, data)
}

func (rc *ReportController) Tecnico(c *gin.Context) {
	rango, ok := rangoFechas(c)
	if !ok {
		return
	}

	filas, err := rc.Bitacoras.BitacorasTecnicoPorNombre(c.Request.Context(), c.Query("nombre"), rango)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Bitácoras recuperadas con éxito", filas, nil)
}

func (rc *ReportController) VentasTecnico(c *gin.Context) {
	rango, ok := rangoFechas(c)
	if !ok {
		return
	}

	filas, err := rc.Bitacoras.VentasTecnicoPorNombre(c.Request.Context(), c.Query("nombre"), rango)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Ventas recuperadas con éxito", filas, nil)
}
