// Package testutil provides shared mocks and well-known DNSSEC test
// vectors for the test suites.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/dns/record"
)

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Submit(ctx context.Context, ds record.DS) (domain.Task, error) {
	args := m.Called(ds)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockRegistry) Retract(ctx context.Context, ds record.DS) (domain.Task, error) {
	args := m.Called(ds)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockRegistry) TaskStatus(ctx context.Context, ref string) (domain.Task, error) {
	args := m.Called(ref)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockRegistry) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) Run(ctx context.Context, action domain.Action, lines []string) []domain.Result {
	args := m.Called(action, lines)
	return args.Get(0).([]domain.Result)
}
