package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"time"

	"bitacoras-backend/models"
	"bitacoras-backend/utils"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	fuenteReporte   = "Helvetica"
	interlineado    = 4.0
	anchoFirma      = 60.0
	altoFirma       = 30.0
	inicioContenido = 48.0
)

type ReportePDFService struct {
	db       *gorm.DB
	log      *zap.Logger
	logoPath string
	ahora    func() time.Time
}

func NewReportePDFService(db *gorm.DB, log *zap.Logger, logoPath string) *ReportePDFService {
	return &ReportePDFService{db: db, log: log, logoPath: logoPath, ahora: time.Now}
}

// datosReporte is everything one render needs, resolved before drawing starts.
type datosReporte struct {
	bitacora     *models.Bitacora
	tipoServicio string
	objetivo     models.Objetivo
	firmaTecnico string
	firmaCliente string
	logo         []byte
	generado     time.Time
}

// Generar renders the one page service report of a log. A non-empty
// tipoServicio replaces the service type label of the stored relation.
func (s *ReportePDFService) Generar(ctx context.Context, bitacoraID uint, tipoServicio string) ([]byte, error) {
	datos, err := s.cargar(ctx, bitacoraID, tipoServicio)
	if err != nil {
		return nil, err
	}

	out, err := renderizarReporte(datos, s.log)
	if err != nil {
		s.log.Error("render pdf", zap.Uint("bitacora_id", bitacoraID), zap.Error(err))
		return nil, utils.Internal("No se pudo generar el reporte")
	}
	return out, nil
}

func (s *ReportePDFService) cargar(ctx context.Context, bitacoraID uint, tipoServicio string) (*datosReporte, error) {
	db := s.db.WithContext(ctx)

	var b models.Bitacora
	err := first(db.
		Preload("Cliente").
		Preload("Usuario", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "nombre") }).
		Preload("TipoServicio").
		Preload("Sistema").
		Preload("Equipo"), &b, "Bitácora no encontrada", bitacoraID)
	if err != nil {
		if !isAppError(err) {
			s.log.Error("cargar bitacora pdf", zap.Uint("bitacora_id", bitacoraID), zap.Error(err))
			return nil, utils.Internal("No se pudo generar el reporte")
		}
		return nil, err
	}

	datos := &datosReporte{
		bitacora:     &b,
		tipoServicio: strings.TrimSpace(tipoServicio),
		objetivo:     b.Objetivo(),
		generado:     s.ahora(),
	}
	if datos.tipoServicio == "" && b.TipoServicio != nil {
		datos.tipoServicio = b.TipoServicio.TipoServicio
	}

	var tecnico models.Firma
	if err := db.Where("tecnico_id = ?", b.UsuarioID).Limit(1).Find(&tecnico).Error; err != nil {
		s.log.Warn("firma tecnico unavailable", zap.Uint("usuario_id", b.UsuarioID), zap.Error(err))
	}
	datos.firmaTecnico = tecnico.FirmaBase64

	if b.FirmaClienteID != nil {
		var cliente models.Firma
		if err := db.Where("id = ?", *b.FirmaClienteID).Limit(1).Find(&cliente).Error; err != nil {
			s.log.Warn("firma cliente unavailable", zap.Uint("firma_id", *b.FirmaClienteID), zap.Error(err))
		}
		datos.firmaCliente = cliente.FirmaBase64
	}

	if s.logoPath != "" {
		if logo, err := os.ReadFile(s.logoPath); err == nil {
			datos.logo = logo
		}
	}
	return datos, nil
}

type lienzo struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	log *zap.Logger
}

func renderizarReporte(d *datosReporte, log *zap.Logger) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	l := &lienzo{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), log: log}

	l.encabezado(d)
	y := l.infoCliente(inicioContenido, d)
	y += 7
	y = l.infoServicio(y, d)
	y += 7
	l.firmas(y, d)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (l *lienzo) negrita(size float64) {
	l.pdf.SetFont(fuenteReporte, "B", size)
}

func (l *lienzo) normal(size float64) {
	l.pdf.SetFont(fuenteReporte, "", size)
}

func (l *lienzo) texto(x, y float64, s string) {
	l.pdf.Text(x, y, l.tr(s))
}

func (l *lienzo) centrado(x, ancho, y float64, s string) {
	t := l.tr(s)
	l.pdf.Text(x+(ancho-l.pdf.GetStringWidth(t))/2, y, t)
}

// etiqueta draws a bold label and leaves the font ready for its value.
func (l *lienzo) etiqueta(x, y float64, s string) {
	l.negrita(10)
	l.texto(x, y, s)
	l.normal(10)
}

// partir wraps s to ancho with the current font. The returned lines are
// already translated for the core fonts.
func (l *lienzo) partir(s string, ancho float64) []string {
	s = strings.ReplaceAll(s, "\r", "")
	var lineas []string
	for _, b := range l.pdf.SplitLines([]byte(l.tr(s)), ancho) {
		lineas = append(lineas, string(b))
	}
	if len(lineas) == 0 {
		lineas = []string{""}
	}
	return lineas
}

func (l *lienzo) linea(x1, y1, x2, y2 float64) {
	l.pdf.Line(x1, y1, x2, y2)
}

func valorONA(s string) string {
	if strings.TrimSpace(s) == "" {
		return utils.NoDisponible
	}
	return s
}

// altoBloque is the vertical advance after a wrapped value of n lines.
func altoBloque(n int) float64 {
	alto := float64(n-1)*interlineado + 6
	if alto < 6 {
		return 6
	}
	return alto
}

func (l *lienzo) encabezado(d *datosReporte) {
	if len(d.logo) > 0 {
		l.imagen("logo", d.logo, 160, 18, 30, 15)
	}

	l.negrita(14)
	l.texto(20, 20, "REPORTE DE SERVICIO")

	l.normal(10)
	l.texto(20, 28, fmt.Sprintf("Bitácora #%d", d.bitacora.ID))
	l.texto(20, 33, "Generado: "+utils.FormatearFechaHora(d.generado))

	l.pdf.SetLineWidth(0.5)
	l.linea(20, 38, 190, 38)
}

func (l *lienzo) infoCliente(y float64, d *datosReporte) float64 {
	const (
		leftX     = 20.0
		rightX    = 130.0
		valorX    = 40.0
		valorDerX = 145.0
	)
	c := d.bitacora.Cliente
	if c == nil {
		c = &models.Cliente{}
	}

	l.negrita(14)
	l.texto(20, y, "INFORMACIÓN CLIENTE")
	y += 8

	l.etiqueta(leftX, y, "Cliente:")
	nombre := l.partir(valorONA(c.Empresa), rightX-valorX-5)
	for i, linea := range nombre {
		l.pdf.Text(valorX, y, linea)
		if i < len(nombre)-1 {
			y += interlineado
		}
	}

	l.etiqueta(rightX, y, "Tel:")
	l.texto(valorDerX, y, utils.FormatearTelefono(c.Telefono))
	y += 6

	l.etiqueta(leftX, y, "Correo:")
	l.texto(valorX, y, valorONA(c.Correo))
	l.etiqueta(rightX, y, "RTN:")
	l.texto(valorDerX, y, valorONA(c.RTN))
	y += 6

	if strings.TrimSpace(c.Direccion) != "" {
		l.etiqueta(leftX, y, "Zona:")
		lineas := l.partir(c.Direccion, 170-(valorX-leftX))
		for i, linea := range lineas {
			if i > 0 {
				y += interlineado
			}
			l.pdf.Text(valorX, y, linea)
		}
	} else {
		l.etiqueta(leftX, y, "Dirección:")
		l.texto(valorX, y, utils.NoDisponible)
	}

	return y + 6
}

func (l *lienzo) infoServicio(y float64, d *datosReporte) float64 {
	const (
		leftX     = 20.0
		rightX    = 110.0
		valorX    = 47.0
		valorDerX = 130.0
		anchoCol  = rightX - valorX - 10
	)
	b := d.bitacora
	tecnico := ""
	if b.Usuario != nil {
		tecnico = b.Usuario.Nombre
	}

	l.negrita(14)
	l.texto(20, y, "INFORMACIÓN DEL SERVICIO")
	y += 8

	l.etiqueta(leftX, y, "Ticket:")
	l.texto(valorX, y, valorONA(b.NoTicket))
	l.etiqueta(rightX, y, "Fecha:")
	l.texto(valorDerX, y, utils.FormatearFecha(b.FechaServicio))
	y += 6

	l.etiqueta(leftX, y, "Servicio:")
	servicio := l.columna(valorX, y, valorONA(d.tipoServicio), anchoCol)
	l.etiqueta(rightX, y, "Técnico:")
	l.texto(valorDerX, y, valorONA(tecnico))
	y += altoBloque(servicio)

	l.etiqueta(leftX, y, "Tipo Hora:")
	l.texto(valorX, y, valorONA(b.TipoHoras))
	l.etiqueta(rightX, y, "Monto:")
	l.texto(valorDerX, y, utils.FormatearMonto(b.Monto))
	y += 6

	l.etiqueta(leftX, y, "Sistema:")
	sistema := l.columna(valorX, y, valorONA(d.objetivo.EtiquetaSistema()), anchoCol)
	l.etiqueta(rightX, y, "Hora llegada:")
	l.texto(valorDerX+8, y, utils.FormatearHora(b.HoraLlegada))
	y += altoBloque(sistema)

	l.etiqueta(leftX, y, "Equipo:")
	equipo := l.columna(valorX, y, valorONA(d.objetivo.EtiquetaEquipo()), anchoCol)
	l.etiqueta(rightX, y, "Hora salida:")
	l.texto(valorDerX+9, y, utils.FormatearHora(b.HoraSalida))
	y += altoBloque(equipo)

	l.etiqueta(leftX, y, "Capacitados:")
	l.texto(valorX, y, valorONA(b.NombresCapacitados))
	y += 6

	if b.DescripcionServicio != "" {
		y = l.textoLibre(y, "Descripción:", b.DescripcionServicio)
		y += 6
	}
	if b.Ventas != "" {
		y = l.textoLibre(y, "Ventas:", b.Ventas)
	}
	y += 6
	if b.Comentarios != "" {
		y = l.textoLibre(y, "Comentarios:", b.Comentarios)
		y += 6
	}
	return y
}

// columna draws a wrapped value as stacked lines starting at y and returns the
// line count.
func (l *lienzo) columna(x, y float64, s string, ancho float64) int {
	lineas := l.partir(s, ancho)
	for i, linea := range lineas {
		l.pdf.Text(x, y+float64(i)*interlineado, linea)
	}
	return len(lineas)
}

// textoLibre draws a labelled free text section. Continuation lines start at
// the left margin. It returns the y of the last line.
func (l *lienzo) textoLibre(y float64, label, s string) float64 {
	const (
		leftX  = 20.0
		valorX = 47.0
	)
	l.etiqueta(leftX, y, label)
	lineas := l.partir(s, 170-(valorX-leftX))
	l.pdf.Text(valorX, y, lineas[0])
	for _, linea := range lineas[1:] {
		y += interlineado
		l.pdf.Text(leftX, y, linea)
	}
	return y
}

func (l *lienzo) firmas(y float64, d *datosReporte) float64 {
	const (
		leftX  = 30.0
		rightX = 120.0
	)
	b := d.bitacora

	l.negrita(14)
	l.texto(20, y, "FIRMAS DE AUTORIZACIÓN")
	y += 10

	l.firma("firma_tecnico", d.firmaTecnico, leftX, y)
	l.firma("firma_cliente", d.firmaCliente, rightX, y)
	y += altoFirma + 5

	l.pdf.SetLineWidth(0.5)
	l.linea(leftX, y, leftX+anchoFirma, y)
	l.linea(rightX, y, rightX+anchoFirma, y)
	y += 5

	l.negrita(10)
	l.centrado(leftX, anchoFirma, y, "Firma Técnico")
	l.centrado(rightX, anchoFirma, y, "Firma Responsable")
	y += 10

	tecnico, responsable := "", ""
	if b.Usuario != nil {
		tecnico = b.Usuario.Nombre
	}
	if b.Cliente != nil {
		responsable = b.Cliente.Responsable
	}
	l.normal(9)
	l.centrado(leftX, anchoFirma, y, valorONA(tecnico))
	l.centrado(rightX, anchoFirma, y, valorONA(responsable))
	y += 3

	l.pdf.SetLineWidth(0.3)
	l.linea(leftX, y, leftX+anchoFirma, y)
	l.linea(rightX, y, rightX+anchoFirma, y)
	y += 5

	l.normal(8)
	l.centrado(leftX, anchoFirma, y, "Nombre Técnico")
	l.centrado(rightX, anchoFirma, y, "Nombre Responsable")
	return y + 10
}

// firma draws a signature image, or a dash when there is none or it cannot be
// embedded.
func (l *lienzo) firma(nombre, base64PNG string, x, y float64) {
	if base64PNG != "" {
		raw, err := DecodificarImagen(base64PNG)
		if err == nil && l.imagen(nombre, raw, x, y, anchoFirma, altoFirma) {
			return
		}
		l.log.Warn("signature image not embeddable", zap.String("firma", nombre), zap.Error(err))
	}
	l.normal(20)
	l.texto(x+anchoFirma/2, y+altoFirma/2, "-")
}

// imagen embeds a PNG. The image is re-encoded as 8 bit non-interlaced PNG
// first because gofpdf rejects interlaced and 16 bit files.
func (l *lienzo) imagen(nombre string, raw []byte, x, y, w, h float64) bool {
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return false
	}
	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return false
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	l.pdf.RegisterImageOptionsReader(nombre, opts, &buf)
	if !l.pdf.Ok() {
		l.pdf.ClearError()
		return false
	}
	l.pdf.ImageOptions(nombre, x, y, w, h, false, opts, 0, "")
	return true
}
