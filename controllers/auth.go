package controllers

import (
	"net/http"
	"time"

	"bitacoras-backend/services"
	"bitacoras-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Correo   string `json:"correo" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Usuarios  *services.UsuarioService
	JWTSecret string
	JWTExpiry time.Duration
	Secure    bool
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	usuario, err := ac.Usuarios.Autenticar(c.Request.Context(), input.Correo, input.Password)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	token, err := utils.GenerateToken(usuario.ID, usuario.Rol, ac.JWTSecret, ac.JWTExpiry)
	if err != nil {
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "No se pudo generar el token")
		return
	}

	c.SetCookie("token", token, int(ac.JWTExpiry/time.Second), "/", "", ac.Secure, true)

	utils.Respond(c, http.StatusOK, "Inicio de sesión exitoso", []gin.H{{
		"token": token,
		"usuario": gin.H{
			"id":     usuario.ID,
			"nombre": usuario.Nombre,
			"correo": usuario.Correo,
			"rol":    usuario.Rol,
		},
	}}, nil)
}

func (ac *AuthController) Me(c *gin.Context) {
	id, ok := utils.UsuarioActual(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Usuario no autenticado")
		return
	}
	usuario, err := ac.Usuarios.PorID(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Usuario obtenido", []interface{}{usuario}, nil)
}

// Nombre is public: the signing page shows the technician's name.
func (ac *AuthController) Nombre(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	nombre, err := ac.Usuarios.NombrePorID(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Nombre obtenido", []string{nombre}, nil)
}
