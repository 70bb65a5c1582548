package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hyperterse/covidcol/core/domain"
	"github.com/hyperterse/covidcol/core/domain/interfaces"
)

// MockConnector is a testify mock of interfaces.Connector
type MockConnector struct {
	mock.Mock
}

// NewMockConnector creates a mock whose expectations are asserted on cleanup
func NewMockConnector(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockConnector {
	m := &MockConnector{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Fetch provides a mock function with given fields: ctx, query
func (m *MockConnector) Fetch(ctx context.Context, query interfaces.SourceQuery) ([]domain.RawRecord, error) {
	ret := m.Called(ctx, query)

	var records []domain.RawRecord
	if rf, ok := ret.Get(0).(func(context.Context, interfaces.SourceQuery) []domain.RawRecord); ok {
		records = rf(ctx, query)
	} else if ret.Get(0) != nil {
		records = ret.Get(0).([]domain.RawRecord)
	}

	return records, ret.Error(1)
}

// Close provides a mock function with no fields
func (m *MockConnector) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
