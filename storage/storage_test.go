package storage

import (
	"context"
	"testing"
)

func TestNewStoreWithoutURL(t *testing.T) {
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("empty URL should not error: %v", err)
	}
	if store != nil {
		t.Fatal("empty URL should yield a nil store")
	}
}

// Every method must be callable on a nil store so the rest of the server
// never has to branch on whether persistence is configured.
func TestNilStoreIsSafe(t *testing.T) {
	var store *Store

	store.SaveRoomState("ABC123", []byte(`{}`))
	store.SaveRoundResult("ABC123", 1, "Alice", []byte(`{}`))
	store.DeleteRoom("ABC123")
	store.Close()

	records, err := store.ListRecentRounds(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentRounds: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
