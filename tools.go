//go:build tools

// Package chat_hub pins mockgen in go.mod so `go generate ./...` regenerates mocks/
// on a fresh checkout.
package chat_hub

import (
	_ "go.uber.org/mock/mockgen"
)
