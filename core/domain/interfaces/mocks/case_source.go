package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hyperterse/covidcol/core/domain"
)

// MockCaseSource is a testify mock of interfaces.CaseSource
type MockCaseSource struct {
	mock.Mock
}

// NewMockCaseSource creates a mock whose expectations are asserted on cleanup
func NewMockCaseSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCaseSource {
	m := &MockCaseSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// QueryByRegion provides a mock function with given fields: ctx, region, limit
func (m *MockCaseSource) QueryByRegion(ctx context.Context, region string, limit int) *domain.ResultTable {
	ret := m.Called(ctx, region, limit)
	table, _ := ret.Get(0).(*domain.ResultTable)
	return table
}

// QueryUnfiltered provides a mock function with given fields: ctx, limit
func (m *MockCaseSource) QueryUnfiltered(ctx context.Context, limit int) *domain.ResultTable {
	ret := m.Called(ctx, limit)
	table, _ := ret.Get(0).(*domain.ResultTable)
	return table
}

// ListRegions provides a mock function with given fields: ctx
func (m *MockCaseSource) ListRegions(ctx context.Context) []string {
	ret := m.Called(ctx)
	regions, _ := ret.Get(0).([]string)
	return regions
}
