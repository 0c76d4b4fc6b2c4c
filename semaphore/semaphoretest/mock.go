package semaphoretest

import (
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/semdemo/semaphore"
)

// MockHandle is a stretchr mock for a semaphore.Handle
type MockHandle struct {
	mock.Mock
}

var _ semaphore.Handle = (*MockHandle)(nil)

func (m *MockHandle) SetValue(v int) error {
	return m.Called(v).Error(0)
}

func (m *MockHandle) OnSetValue(v int, err error) *mock.Call {
	return m.On("SetValue", v).Return(err)
}

func (m *MockHandle) Acquire(undo bool) error {
	return m.Called(undo).Error(0)
}

func (m *MockHandle) OnAcquire(undo bool, err error) *mock.Call {
	return m.On("Acquire", undo).Return(err)
}

func (m *MockHandle) Release(undo bool) error {
	return m.Called(undo).Error(0)
}

func (m *MockHandle) OnRelease(undo bool, err error) *mock.Call {
	return m.On("Release", undo).Return(err)
}

func (m *MockHandle) Destroy() error {
	return m.Called().Error(0)
}

func (m *MockHandle) OnDestroy(err error) *mock.Call {
	return m.On("Destroy").Return(err)
}
