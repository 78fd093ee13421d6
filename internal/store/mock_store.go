package store

import "github.com/stretchr/testify/mock"

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Lookup(name string) (*Record, bool) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*Record), args.Bool(1)
}

func (m *MockStore) List() []*Record {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*Record)
}

func (m *MockStore) Len() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockStore) Reload() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStore) Save(rec *Record, filename string, overwrite bool) (string, error) {
	args := m.Called(rec, filename, overwrite)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Dir() string {
	args := m.Called()
	return args.String(0)
}
