// Package mocks provides mock implementations for testing the console's ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockClient := mocks.NewMockBackendClient(ctrl)
//	mockClient.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for BackendClient interface from internal/ports package.
// This creates MockBackendClient with methods for all BackendClient interface methods:
// Get, Post, Put, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_client_mock.go github.com/efiling/console/internal/ports BackendClient
