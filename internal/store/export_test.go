package store

import "testing"

// NewTestStore returns a store bound to a transaction rolled back at the end of the test
func NewTestStore(t *testing.T) Store {
	if testDB == nil {
		t.Fatal("Test database not initialized")
	}
	return initPGTestDB(t)
}
