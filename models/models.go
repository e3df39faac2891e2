package models

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Usuario{},
		&Cliente{},
		&TipoServicio{},
		&Sistema{},
		&Equipo{},
		&Configuracion{},
		&Encuesta{},
		&Firma{},
		&Bitacora{},
		&NotificacionLog{},
	}
}
