//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install`; only their runtime
// libraries (if any) appear in go.mod.
package tools

// Development tools (install via `go install`):
//
// MockGen - Interface mock generation for tests
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Docs: https://github.com/uber-go/mock
