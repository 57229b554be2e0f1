// Copyright (c) 2025 Keel Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at keel.foundation/bsl11.
//
// Change Date: 2029-3-01
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fs

import (
	os "os"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockSystem is a mock of System interface.
type MockSystem struct {
	ctrl     *gomock.Controller
	recorder *MockSystemMockRecorder
}

// MockSystemMockRecorder is the mock recorder for MockSystem.
type MockSystemMockRecorder struct {
	mock *MockSystem
}

// NewMockSystem creates a new mock instance.
func NewMockSystem(ctrl *gomock.Controller) *MockSystem {
	mock := &MockSystem{ctrl: ctrl}
	mock.recorder = &MockSystemMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSystem) EXPECT() *MockSystemMockRecorder {
	return m.recorder
}

// Stat mocks base method.
func (m *MockSystem) Stat(path string) (os.FileInfo, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stat", path)
	ret0, _ := ret[0].(os.FileInfo)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Stat indicates an expected call of Stat.
func (mr *MockSystemMockRecorder) Stat(path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stat", reflect.TypeOf((*MockSystem)(nil).Stat), path)
}

// Mkdir mocks base method.
func (m *MockSystem) Mkdir(path string, perm os.FileMode) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Mkdir", path, perm)
	ret0, _ := ret[0].(error)
	return ret0
}

// Mkdir indicates an expected call of Mkdir.
func (mr *MockSystemMockRecorder) Mkdir(path, perm any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Mkdir", reflect.TypeOf((*MockSystem)(nil).Mkdir), path, perm)
}

// RemoveAll mocks base method.
func (m *MockSystem) RemoveAll(path string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveAll", path)
	ret0, _ := ret[0].(error)
	return ret0
}

// RemoveAll indicates an expected call of RemoveAll.
func (mr *MockSystemMockRecorder) RemoveAll(path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveAll", reflect.TypeOf((*MockSystem)(nil).RemoveAll), path)
}

// OpenLocked mocks base method.
func (m *MockSystem) OpenLocked(path string) (LockHandle, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenLocked", path)
	ret0, _ := ret[0].(LockHandle)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// OpenLocked indicates an expected call of OpenLocked.
func (mr *MockSystemMockRecorder) OpenLocked(path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenLocked", reflect.TypeOf((*MockSystem)(nil).OpenLocked), path)
}

// ProcessAlive mocks base method.
func (m *MockSystem) ProcessAlive(pid int) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ProcessAlive", pid)
	ret0, _ := ret[0].(bool)
	return ret0
}

// ProcessAlive indicates an expected call of ProcessAlive.
func (mr *MockSystemMockRecorder) ProcessAlive(pid any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ProcessAlive", reflect.TypeOf((*MockSystem)(nil).ProcessAlive), pid)
}

// MockLockHandle is a mock of LockHandle interface.
type MockLockHandle struct {
	ctrl     *gomock.Controller
	recorder *MockLockHandleMockRecorder
}

// MockLockHandleMockRecorder is the mock recorder for MockLockHandle.
type MockLockHandleMockRecorder struct {
	mock *MockLockHandle
}

// NewMockLockHandle creates a new mock instance.
func NewMockLockHandle(ctrl *gomock.Controller) *MockLockHandle {
	mock := &MockLockHandle{ctrl: ctrl}
	mock.recorder = &MockLockHandleMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLockHandle) EXPECT() *MockLockHandleMockRecorder {
	return m.recorder
}

// Close mocks base method.
func (m *MockLockHandle) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	ret0, _ := ret[0].(error)
	return ret0
}

// Close indicates an expected call of Close.
func (mr *MockLockHandleMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockLockHandle)(nil).Close))
}
