package services

import (
	"context"
	"net/http"
	"testing"

	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"go.uber.org/zap"
)

func TestAutenticar(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUsuarioService(db, zap.NewNop())
	seedTecnico(t, db, "Carlos")
	inactivo := seedTecnico(t, db, "Pedro")
	db.Model(inactivo).Update("activo", false)

	u, err := svc.Autenticar(context.Background(), " CARLOS@example.com ", "secreto")
	if err != nil {
		t.Fatalf("Autenticar: %v", err)
	}
	if u.Nombre != "Carlos" {
		t.Errorf("nombre = %q", u.Nombre)
	}
	var stored models.Usuario
	db.First(&stored, u.ID)
	if stored.LastLogin == nil {
		t.Error("last_login not recorded")
	}

	tests := []struct {
		name     string
		correo   string
		password string
	}{
		{"clave incorrecta", "carlos@example.com", "otra"},
		{"correo desconocido", "nadie@example.com", "secreto"},
		{"usuario inactivo", "pedro@example.com", "secreto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Autenticar(context.Background(), tt.correo, tt.password)
			if utils.StatusOf(err) != http.StatusUnauthorized {
				t.Errorf("err = %v, want 401", err)
			}
		})
	}
}

func TestNombrePorID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUsuarioService(db, zap.NewNop())
	u := seedTecnico(t, db, "Carlos")

	nombre, err := svc.NombrePorID(context.Background(), u.ID)
	if err != nil || nombre != "Carlos" {
		t.Errorf("NombrePorID = %q, %v", nombre, err)
	}
	if _, err := svc.NombrePorID(context.Background(), 999); utils.StatusOf(err) != http.StatusNotFound {
		t.Errorf("unknown usuario: %v", err)
	}
}
