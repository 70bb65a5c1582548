package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hyperterse/covidcol/core/application/services"
	"github.com/hyperterse/covidcol/core/domain"
	"github.com/hyperterse/covidcol/core/domain/interfaces"
	mocks "github.com/hyperterse/covidcol/core/domain/interfaces/mocks"
	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

type recordingNotifier struct {
	lines []string
}

func (n *recordingNotifier) Notice(format string, args ...any) {
	n.lines = append(n.lines, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) text() string {
	return strings.Join(n.lines, "\n")
}

func rowsFor(region string, count int) []domain.RawRecord {
	rows := make([]domain.RawRecord, count)
	for i := range rows {
		rows[i] = domain.RawRecord{"departamento_nom": region, "edad": fmt.Sprint(20 + i)}
	}
	return rows
}

func TestCaseService_QueryByRegion(t *testing.T) {
	tests := []struct {
		name        string
		region      string
		rows        []domain.RawRecord
		err         error
		wantNil     bool
		wantRows    int
		wantNotices []string
	}{
		{
			name:        "upper-cases region and returns rows",
			region:      "risaralda",
			rows:        rowsFor("RISARALDA", 10),
			wantRows:    10,
			wantNotices: []string{"Consultando 10 registros para RISARALDA...", "Consulta exitosa: 10 registros obtenidos"},
		},
		{
			name:        "empty result is not absent",
			region:      "NONEXISTENTX",
			rows:        []domain.RawRecord{},
			wantRows:    0,
			wantNotices: []string{"Consulta exitosa pero sin registros para NONEXISTENTX"},
		},
		{
			name:        "remote failure becomes absent",
			region:      "CALDAS",
			err:         apperrors.NewRemoteError(503, "Service Unavailable"),
			wantNil:     true,
			wantNotices: []string{"Error al consultar la API: el servicio respondió 503 (Service Unavailable)", "Verifique el nombre del departamento: CALDAS"},
		},
		{
			name:        "connection failure becomes absent",
			region:      "CALDAS",
			err:         apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "dial", assert.AnError),
			wantNil:     true,
			wantNotices: []string{"no fue posible conectar con el servidor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connector := mocks.NewMockConnector(t)
			notifier := &recordingNotifier{}
			wantRegion := strings.ToUpper(tt.region)

			connector.On("Fetch", mock.Anything, interfaces.SourceQuery{
				Limit:  10,
				Equals: map[string]string{"departamento_nom": wantRegion},
			}).Return(tt.rows, tt.err).Once()

			service := services.NewCaseService(connector, notifier, services.Options{})
			table := service.QueryByRegion(context.Background(), tt.region, 10)

			if tt.wantNil {
				assert.Nil(t, table)
			} else {
				require.NotNil(t, table)
				assert.Equal(t, tt.wantRows, table.Len())
			}
			for _, notice := range tt.wantNotices {
				assert.Contains(t, notifier.text(), notice)
			}
		})
	}
}

func TestCaseService_QueryUnfiltered(t *testing.T) {
	connector := mocks.NewMockConnector(t)
	notifier := &recordingNotifier{}
	connector.On("Fetch", mock.Anything, interfaces.SourceQuery{Limit: 20}).
		Return(rowsFor("ANTIOQUIA", 20), nil).Once()

	service := services.NewCaseService(connector, notifier, services.Options{})
	table := service.QueryUnfiltered(context.Background(), 20)

	require.NotNil(t, table)
	assert.Equal(t, 20, table.Len())
	assert.Contains(t, notifier.text(), "Consulta general exitosa: 20 registros obtenidos")
}

func TestCaseService_QueryUnfiltered_Failure(t *testing.T) {
	connector := mocks.NewMockConnector(t)
	notifier := &recordingNotifier{}
	connector.On("Fetch", mock.Anything, mock.Anything).
		Return(nil, apperrors.WrapError(apperrors.ErrCodeDecodeFailed, "bad json", assert.AnError)).Once()

	service := services.NewCaseService(connector, notifier, services.Options{})

	assert.Nil(t, service.QueryUnfiltered(context.Background(), 20))
	assert.Contains(t, notifier.text(), "Error en consulta general")
}

func TestCaseService_ListRegions(t *testing.T) {
	connector := mocks.NewMockConnector(t)
	rows := []domain.RawRecord{
		{"depto": "VALLE"},
		{"depto": "ANTIOQUIA"},
		{"depto": " "},
		{"depto": "VALLE"},
		{"other": "x"},
	}
	connector.On("Fetch", mock.Anything, interfaces.SourceQuery{Limit: 50}).Return(rows, nil).Once()

	service := services.NewCaseService(connector, nil, services.Options{RegionField: "depto", RegionSampleSize: 50})

	assert.Equal(t, "depto", service.RegionField())
	assert.Equal(t, []string{"ANTIOQUIA", "VALLE"}, service.ListRegions(context.Background()))
}

func TestCaseService_ListRegions_Failure(t *testing.T) {
	connector := mocks.NewMockConnector(t)
	connector.On("Fetch", mock.Anything, interfaces.SourceQuery{Limit: 100}).Return(nil, assert.AnError).Once()

	service := services.NewCaseService(connector, nil, services.Options{})

	regions := service.ListRegions(context.Background())
	assert.NotNil(t, regions)
	assert.Empty(t, regions)
}
