package controllers

import (
	"net/http"

	"bitacoras-backend/services"
	"bitacoras-backend/utils"

	"github.com/gin-gonic/gin"
)

type EncuestaController struct {
	Bitacoras *services.BitacoraService
}

type CalificacionInput struct {
	Calificacion int `json:"calificacion" binding:"required"`
}

// Pagina renders the satisfaction survey. Without a log id the survey is shown
// but cannot be submitted.
func (ec *EncuestaController) Pagina(c *gin.Context) {
	c.HTML(http.StatusOK, "encuesta.html", gin.H{"BitacoraID": c.Param("id")})
}

func (ec *EncuestaController) Responder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input CalificacionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Datos inválidos: "+err.Error())
		return
	}
	if err := ec.Bitacoras.ActualizarCalificacion(c.Request.Context(), id, input.Calificacion); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Calificación registrada", nil, nil)
}
