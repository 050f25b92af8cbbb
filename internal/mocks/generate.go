// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for port interfaces. Hand-written lightweight doubles live in
// internal/mocks/auth; generated mocks are used where tests need strict
// call expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for the IdentityBackend port.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=identity_backend_mock.go github.com/placementhub/portal-api/internal/ports IdentityBackend
