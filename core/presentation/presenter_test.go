package presentation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperterse/covidcol/core/domain"
	"github.com/hyperterse/covidcol/core/domain/interfaces"
	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

var _ interfaces.Presenter = (*Presenter)(nil)

func newTestPresenter(t *testing.T, input string, opts Options) (*Presenter, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	p := NewPresenter(strings.NewReader(input), out, opts)
	t.Cleanup(func() { _ = p.Close() })
	return p, out
}

func TestPresenter_RenderMenu(t *testing.T) {
	p, out := newTestPresenter(t, "", Options{})

	p.RenderMenu()

	text := out.String()
	assert.Contains(t, text, strings.Repeat("=", 60)+"\n")
	assert.Contains(t, text, "CONSULTA DE DATOS COVID-19 COLOMBIA")
	assert.Contains(t, text, " 1. Realizar consulta de datos\n")
	assert.Contains(t, text, " 2. Salir de la aplicación\n")
}

func TestPresenter_ReadMenuChoice(t *testing.T) {
	p, out := newTestPresenter(t, "  1 \n", Options{})

	choice, err := p.ReadMenuChoice(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "1", choice)
	assert.Contains(t, out.String(), "Seleccione una opción (1-2): ")
}

func TestPresenter_CollectQueryParameters(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		threshold    int
		want         domain.QueryRequest
		wantOutput   []string
		confirmCount int
	}{
		{
			name:       "plain answers",
			input:      "risaralda\n10\n",
			want:       domain.QueryRequest{Region: "RISARALDA", Limit: 10},
			wantOutput: []string{"Ejemplos de departamentos válidos:", "   7. RISARALDA", "Recomendación"},
		},
		{
			name:       "trims and upper-cases with accents",
			input:      "  bogotá d.c.  \n 25 \n",
			want:       domain.QueryRequest{Region: "BOGOTÁ D.C.", Limit: 25},
		},
		{
			name:       "re-prompts until positive integer",
			input:      "caldas\nabc\n-3\n0\n25\n",
			want:       domain.QueryRequest{Region: "CALDAS", Limit: 25},
			wantOutput: []string{"Por favor ingrese un número válido", "El número debe ser positivo"},
		},
		{
			name:  "threshold itself needs no confirmation",
			input: "caldas\n500\n",
			want:  domain.QueryRequest{Region: "CALDAS", Limit: 500},
		},
		{
			name:         "rejection re-prompts the limit",
			input:        "caldas\n600\nn\n700\nS\n",
			want:         domain.QueryRequest{Region: "CALDAS", Limit: 700},
			wantOutput:   []string{" 600 registros pueden tardar mucho. ¿Continuar? (s/n): ", " 700 registros pueden tardar mucho."},
			confirmCount: 2,
		},
		{
			name:         "every affirmative token accepts",
			input:        "meta\n501\n yes \n",
			want:         domain.QueryRequest{Region: "META", Limit: 501},
			confirmCount: 1,
		},
		{
			name:         "custom threshold",
			input:        "meta\n6\nSi\n",
			threshold:    5,
			want:         domain.QueryRequest{Region: "META", Limit: 6},
			confirmCount: 1,
		},
		{
			name:       "blank region is asked again",
			input:      "\n   \nhuila\n3\n",
			want:       domain.QueryRequest{Region: "HUILA", Limit: 3},
			wantOutput: []string{"El nombre del departamento no puede estar vacío"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestPresenter(t, tt.input, Options{ConfirmThreshold: tt.threshold})

			got, err := p.CollectQueryParameters(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
			assert.Equal(t, tt.confirmCount, strings.Count(out.String(), "¿Continuar?"))
		})
	}
}

func TestPresenter_CollectQueryParameters_EndOfInput(t *testing.T) {
	for _, input := range []string{"", "caldas\n", "caldas\n900\n"} {
		p, _ := newTestPresenter(t, input, Options{})

		_, err := p.CollectQueryParameters(context.Background())

		assert.True(t, apperrors.IsInterrupted(err), "input %q", input)
	}
}

func TestPresenter_Pause(t *testing.T) {
	p, out := newTestPresenter(t, "\n", Options{})

	require.NoError(t, p.Pause(context.Background()))
	assert.Contains(t, out.String(), "Presione Enter para continuar...")
}

func TestPresenter_Messages(t *testing.T) {
	p, out := newTestPresenter(t, "", Options{})

	p.Banner()
	p.QueryStarted()
	p.Notice("Consulta exitosa: %d registros obtenidos", 3)
	p.InvalidOption()
	p.UnexpectedError(errors.New("kaboom"))
	p.RenderNoResults()
	p.Farewell()
	p.Interrupted()

	text := out.String()
	for _, want := range []string{
		"Iniciando aplicación COVID-19...",
		"NUEVA CONSULTA INICIADA",
		"Consulta exitosa: 3 registros obtenidos\n",
		"Opción no válida. Por favor seleccione 1 o 2",
		"Error inesperado: kaboom",
		"La aplicación continuará ejecutándose...",
		"CONSULTA SIN RESULTADOS",
		"¡Gracias por usar la aplicación!",
		"Aplicación interrumpida por el usuario",
	} {
		assert.Contains(t, text, want)
	}
}

func TestPresenter_RenderRegions(t *testing.T) {
	p, out := newTestPresenter(t, "", Options{})

	p.RenderRegions([]string{"ANTIOQUIA", "CALDAS"})
	p.RenderRegions(nil)

	assert.Contains(t, out.String(), "Departamentos disponibles (2):")
	assert.Contains(t, out.String(), "   2. CALDAS")
	assert.Contains(t, out.String(), "No se obtuvieron departamentos")
}
