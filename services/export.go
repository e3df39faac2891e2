package services

import (
	"fmt"

	"bitacoras-backend/utils"

	"github.com/xuri/excelize/v2"
)

const hojaBitacoras = "Bitácoras"

var encabezadosReporte = []string{
	"Fecha", "Ticket", "Cliente", "Técnico", "Hora llegada", "Hora salida",
	"Servicio", "Modalidad", "Tipo horas", "Horas", "Descripción",
}

// ExportarFilasExcel writes report rows to an xlsx workbook with one header
// row, in the same column order as the preview.
func ExportarFilasExcel(filas []FilaReporte) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaBitacoras); err != nil {
		return nil, err
	}

	for i, header := range encabezadosReporte {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaBitacoras, cell, header); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(encabezadosReporte), 1)
	if err := f.SetCellStyle(hojaBitacoras, "A1", last, bold); err != nil {
		return nil, err
	}

	for i, fila := range filas {
		row := i + 2
		valores := []interface{}{
			utils.FormatearFecha(fila.Fecha),
			fila.Ticket,
			fila.Cliente,
			fila.Tecnico,
			utils.FormatearHora(fila.HoraLlegada),
			utils.FormatearHora(fila.HoraSalida),
			fila.Servicio,
			fila.Modalidad,
			fila.TipoHoras,
			fila.Horas.InexactFloat64(),
			fila.Descripcion,
		}
		for col, v := range valores {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(hojaBitacoras, cell, v); err != nil {
				return nil, fmt.Errorf("fila %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(hojaBitacoras, "A", "J", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(hojaBitacoras, "K", "K", 60); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
