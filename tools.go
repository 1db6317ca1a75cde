//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// Mocks in *_mock_test.go are generated with github.com/matryer/moq
// (see the go:generate lines in the tests). Migrations can also be applied
// by hand with github.com/pressly/goose/v3/cmd/goose.
