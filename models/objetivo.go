package models

type TipoObjetivo int

const (
	ObjetivoNinguno TipoObjetivo = iota
	ObjetivoEquipo
	ObjetivoSistema
)

func (t TipoObjetivo) String() string {
	switch t {
	case ObjetivoEquipo:
		return "equipo"
	case ObjetivoSistema:
		return "sistema"
	}
	return "ninguno"
}

// Objetivo is what a service visit was performed on: one equipment, one system,
// or nothing.
type Objetivo struct {
	Tipo     TipoObjetivo
	ID       uint
	Etiqueta string
}

func (o Objetivo) EquipoID() *uint {
	if o.Tipo != ObjetivoEquipo {
		return nil
	}
	id := o.ID
	return &id
}

func (o Objetivo) SistemaID() *uint {
	if o.Tipo != ObjetivoSistema {
		return nil
	}
	id := o.ID
	return &id
}

// EtiquetaEquipo returns the label for the equipment row, empty when the
// target is not an equipment.
func (o Objetivo) EtiquetaEquipo() string {
	if o.Tipo != ObjetivoEquipo {
		return ""
	}
	return o.Etiqueta
}

func (o Objetivo) EtiquetaSistema() string {
	if o.Tipo != ObjetivoSistema {
		return ""
	}
	return o.Etiqueta
}
