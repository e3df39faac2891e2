package services

import (
	"context"
	"strings"
	"time"

	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UsuarioService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUsuarioService(db *gorm.DB, log *zap.Logger) *UsuarioService {
	return &UsuarioService{db: db, log: log}
}

func (s *UsuarioService) NombrePorID(ctx context.Context, id uint) (string, error) {
	var u models.Usuario
	if err := first(s.db.WithContext(ctx).Select("nombre"), &u, "Usuario no encontrado", id); err != nil {
		if !isAppError(err) {
			s.log.Error("nombre usuario", zap.Uint("id", id), zap.Error(err))
			return "", utils.Internal("Error al obtener el usuario")
		}
		return "", err
	}
	return u.Nombre, nil
}

func (s *UsuarioService) PorID(ctx context.Context, id uint) (*models.Usuario, error) {
	var u models.Usuario
	if err := first(s.db.WithContext(ctx), &u, "Usuario no encontrado", id); err != nil {
		if !isAppError(err) {
			s.log.Error("buscar usuario", zap.Uint("id", id), zap.Error(err))
			return nil, utils.Internal("Error al obtener el usuario")
		}
		return nil, err
	}
	return &u, nil
}

// Autenticar checks the credentials of an active usuario and records the login.
func (s *UsuarioService) Autenticar(ctx context.Context, correo, password string) (*models.Usuario, error) {
	correo = strings.ToLower(strings.TrimSpace(correo))
	invalid := utils.Unauthorized("Credenciales inválidas")

	var u models.Usuario
	if err := first(s.db.WithContext(ctx), &u, "", "correo = ? AND activo = ?", correo, true); err != nil {
		if isAppError(err) {
			return nil, invalid
		}
		s.log.Error("autenticar", zap.Error(err))
		return nil, utils.Internal("Error al iniciar sesión")
	}
	if !utils.CheckPasswordHash(password, u.Password) {
		return nil, invalid
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&u).Update("last_login", now).Error; err != nil {
		s.log.Warn("update last login", zap.Uint("id", u.ID), zap.Error(err))
	}
	return &u, nil
}
