package presentation

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hyperterse/covidcol/core/domain"
)

// ExampleRegions are listed when asking for a department.
var ExampleRegions = []string{
	"ANTIOQUIA", "CUNDINAMARCA", "VALLE DEL CAUCA",
	"SANTANDER", "BOLIVAR", "ATLANTICO", "RISARALDA",
}

var affirmative = map[string]bool{"s": true, "si": true, "yes": true, "y": true}

// Options configures a Presenter.
type Options struct {
	// ConfirmThreshold is the row limit above which the user must confirm.
	ConfirmThreshold int
	Render           RenderOptions
}

// Presenter writes every user-facing text of the program and reads the
// answers to its prompts.
type Presenter struct {
	out    io.Writer
	reader *LineReader
	opts   Options
}

// NewPresenter creates a presenter reading from in and writing to out.
func NewPresenter(in io.Reader, out io.Writer, opts Options) *Presenter {
	if opts.ConfirmThreshold <= 0 {
		opts.ConfirmThreshold = 500
	}
	return &Presenter{
		out:    out,
		reader: NewLineReader(in),
		opts:   opts,
	}
}

func (p *Presenter) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Presenter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Presenter) prompt(ctx context.Context, text string) (string, error) {
	p.printf("%s", text)
	return p.reader.ReadLine(ctx)
}

// Banner announces the interactive session.
func (p *Presenter) Banner() {
	p.println("Iniciando aplicación COVID-19...")
}

// RenderMenu writes the two-option main menu.
func (p *Presenter) RenderMenu() {
	rule := strings.Repeat("=", menuWidth)
	p.println("\n" + rule)
	p.println(center("CONSULTA DE DATOS COVID-19 COLOMBIA ", menuWidth, " "))
	p.println(rule)
	p.println(" 1. Realizar consulta de datos")
	p.println(" 2. Salir de la aplicación")
	p.println(rule)
}

// ReadMenuChoice reads the menu option, trimmed.
func (p *Presenter) ReadMenuChoice(ctx context.Context) (string, error) {
	choice, err := p.prompt(ctx, "\nSeleccione una opción (1-2): ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(choice), nil
}

// QueryStarted marks the beginning of a new query.
func (p *Presenter) QueryStarted() {
	p.println("\nNUEVA CONSULTA INICIADA")
}

// CollectQueryParameters asks for a department and a row limit. The limit is
// asked again until it is a positive integer and, above the confirmation
// threshold, until the user confirms it.
func (p *Presenter) CollectQueryParameters(ctx context.Context) (domain.QueryRequest, error) {
	p.println("\n" + center(" CONFIGURACIÓN DE CONSULTA", 50, "-"))
	p.println("\n Ejemplos de departamentos válidos:")
	for i, region := range ExampleRegions {
		p.printf("   %d. %s\n", i+1, region)
	}

	p.println("\n Departamento:")
	var region string
	for {
		line, err := p.prompt(ctx, "Ingrese el nombre del departamento: ")
		if err != nil {
			return domain.QueryRequest{}, err
		}
		region = domain.NormalizeRegion(line)
		if region != "" {
			break
		}
		p.println(" El nombre del departamento no puede estar vacío")
	}

	p.println("\n Número de registros:")
	p.println("  Recomendación: Use entre 10-100 registros para evitar demoras")
	limit, err := p.readLimit(ctx)
	if err != nil {
		return domain.QueryRequest{}, err
	}

	return domain.NewQueryRequest(region, limit)
}

func (p *Presenter) readLimit(ctx context.Context) (int, error) {
	for {
		line, err := p.prompt(ctx, "Ingrese el número de registros: ")
		if err != nil {
			return 0, err
		}

		limit, convErr := strconv.Atoi(strings.TrimSpace(line))
		switch {
		case convErr != nil:
			p.println(" Por favor ingrese un número válido")
			continue
		case limit <= 0:
			p.println(" El número debe ser positivo")
			continue
		case limit <= p.opts.ConfirmThreshold:
			return limit, nil
		}

		answer, err := p.prompt(ctx, fmt.Sprintf(" %d registros pueden tardar mucho. ¿Continuar? (s/n): ", limit))
		if err != nil {
			return 0, err
		}
		if affirmative[strings.ToLower(strings.TrimSpace(answer))] {
			return limit, nil
		}
	}
}

// RenderTable writes the projected result with the presenter's render options.
func (p *Presenter) RenderTable(t *domain.DisplayTable) {
	RenderTable(p.out, t, p.opts.Render)
}

// RenderNoResults explains why a query may have produced nothing.
func (p *Presenter) RenderNoResults() {
	p.println("\n CONSULTA SIN RESULTADOS")
	p.println("   Posibles causas:")
	p.println("   • Nombre del departamento incorrecto")
	p.println("   • Problemas de conectividad")
	p.println("   • API temporalmente no disponible")
	p.println("\n Sugerencias:")
	p.println("   • Verifique la ortografía del departamento")
	p.println("   • Use nombres en MAYÚSCULAS")
	p.println("   • Intente con otro departamento")
}

// RenderRegions lists department names sampled from the dataset.
func (p *Presenter) RenderRegions(regions []string) {
	if len(regions) == 0 {
		p.println("\n No se obtuvieron departamentos")
		return
	}
	p.printf("\n Departamentos disponibles (%d):\n", len(regions))
	for i, region := range regions {
		p.printf("   %d. %s\n", i+1, region)
	}
}

// Pause waits for the user to press Enter.
func (p *Presenter) Pause(ctx context.Context) error {
	_, err := p.prompt(ctx, "\n  Presione Enter para continuar...")
	return err
}

// Notice writes one diagnostic line.
func (p *Presenter) Notice(format string, args ...any) {
	p.printf(format+"\n", args...)
}

// InvalidOption reports a menu choice other than 1 or 2.
func (p *Presenter) InvalidOption() {
	p.println("\nOpción no válida. Por favor seleccione 1 o 2")
}

// UnexpectedError reports a failed iteration that the session survives.
func (p *Presenter) UnexpectedError(err error) {
	p.printf("\nError inesperado: %v\n", err)
	p.println("La aplicación continuará ejecutándose...")
}

// Farewell is written when the user leaves through the menu.
func (p *Presenter) Farewell() {
	p.println("\n¡Gracias por usar la aplicación!")
}

// Interrupted is written when the user aborts the session.
func (p *Presenter) Interrupted() {
	p.println("\n\nAplicación interrumpida por el usuario")
	p.println("¡Hasta pronto!")
}

// Close stops reading input.
func (p *Presenter) Close() error {
	return p.reader.Close()
}
