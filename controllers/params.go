package controllers

import (
	"net/http"
	"strconv"

	"bitacoras-backend/utils"

	"github.com/gin-gonic/gin"
)

// paramID reads a positive numeric path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return def
}

// rangoFechas reads fechaInicio and fechaFinal from the query string.
func rangoFechas(c *gin.Context) (utils.Rango, bool) {
	rango, err := utils.ParseRango(c.Query("fechaInicio"), c.Query("fechaFinal"))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return utils.Rango{}, false
	}
	return rango, true
}
