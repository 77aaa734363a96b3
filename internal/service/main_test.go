package service

import (
	"testing"

	"go.uber.org/goleak"
)

// The watcher and syncer start goroutines; every test must leave none behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
