package controllers

import (
	"net/http"

	"bitacoras-backend/models"
	"bitacoras-backend/services"
	"bitacoras-backend/utils"

	"github.com/gin-gonic/gin"
)

type FirmaController struct {
	Firmas *services.FirmaService
	Sesion *services.SesionFirma
}

type FinalizarFirmaInput struct {
	ID          uint   `json:"id"`
	FirmaBase64 string `json:"firma_base64"`
}

type FirmaTecnicoInput struct {
	FirmaBase64 string `json:"firma_base64" binding:"required"`
}

func (fc *FirmaController) Validar(c *gin.Context) {
	firma, err := fc.Firmas.ValidarToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Enlace válido", []*models.Firma{firma}, nil)
}

func (fc *FirmaController) Finalizar(c *gin.Context) {
	var input FinalizarFirmaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if err := fc.Firmas.Finalizar(c.Request.Context(), input.ID, input.FirmaBase64); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Firma registrada exitosamente", nil, nil)
}

func (fc *FirmaController) GuardarTecnico(c *gin.Context) {
	tecnicoID, ok := utils.UsuarioActual(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Usuario no autenticado")
		return
	}
	var input FirmaTecnicoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "La firma no puede estar vacía")
		return
	}
	firma, err := fc.Firmas.GuardarFirmaTecnico(c.Request.Context(), tecnicoID, input.FirmaBase64)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	firma.FirmaBase64 = ""
	utils.Respond(c, http.StatusOK, "Firma del técnico guardada", []*models.Firma{firma}, nil)
}

func (fc *FirmaController) QR(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	png, err := fc.Firmas.QR(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Pagina renders the client signing page for a token.
func (fc *FirmaController) Pagina(c *gin.Context) {
	pagina, err := fc.Sesion.Cargar(c.Request.Context(), c.Param("token"))
	if err != nil {
		status := utils.StatusOf(err)
		msg := "El enlace ya ha sido utilizado."
		if status == http.StatusInternalServerError {
			msg = "Error al validar el enlace"
		}
		c.HTML(status, "firma_invalida.html", gin.H{"Mensaje": msg})
		return
	}
	c.HTML(http.StatusOK, "firma.html", gin.H{
		"Pagina":       pagina,
		"RutaEncuesta": pagina.RutaEncuesta(),
		"Fecha":        fechaResumen(pagina.Bitacora),
	})
}

func fechaResumen(b *services.ResumenBitacora) string {
	if b == nil {
		return ""
	}
	return b.FechaServicio.UTC().Format(utils.LayoutFecha)
}
