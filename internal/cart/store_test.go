package cart

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := New()
	c.AddItem(1, "Boerewors Roll", 8500)
	c.AddItem(2, "Chakalaka", 3000)
	c.UpdateInstructions(2, "extra hot")

	if err := store.Save(ctx, "session-1", c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if len(loaded.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(loaded.Lines))
	}
	if loaded.Totals() != c.Totals() {
		t.Errorf("reloaded totals %+v differ from saved %+v", loaded.Totals(), c.Totals())
	}
	if loaded.Lines[1].Instructions != "extra hot" {
		t.Errorf("instructions lost on round trip")
	}
}

func TestMemoryStoreIsolatesSessions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := New()
	a.AddItem(1, "Boerewors Roll", 8500)
	if err := store.Save(ctx, "session-a", a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b, err := store.Get(ctx, "session-b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !b.IsEmpty() {
		t.Error("a fresh session saw another session's cart")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := New()
	c.AddItem(1, "Boerewors Roll", 8500)
	if err := store.Save(ctx, "s", c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	first, _ := store.Get(ctx, "s")
	first.UpdateQuantity(1, 99)

	second, _ := store.Get(ctx, "s")
	if second.Lines[0].Quantity != 1 {
		t.Error("mutating an unsaved cart leaked into the store")
	}
}

func TestMemoryStoreClearAbsentSession(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Clear(context.Background(), "never-seen"); err != nil {
		t.Errorf("clearing an absent session should be a no-op, got %v", err)
	}
}

// The wire format must round-trip losslessly: a reloaded cart computes
// identical totals.
func TestCartJSONRoundTrip(t *testing.T) {
	c := New()
	c.AddItem(7, "Peri-Peri Chicken", 12950)
	c.AddItem(7, "Peri-Peri Chicken", 12950)
	c.AddItem(9, "Rooibos Iced Tea", 2800)
	c.UpdateInstructions(7, "no skin")

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Cart
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(decoded.Lines) != len(c.Lines) {
		t.Fatalf("line count changed over the wire")
	}
	for i := range c.Lines {
		if decoded.Lines[i] != c.Lines[i] {
			t.Errorf("line %d changed over the wire: %+v != %+v", i, decoded.Lines[i], c.Lines[i])
		}
	}
	if decoded.Totals() != c.Totals() {
		t.Errorf("totals changed over the wire: %+v != %+v", decoded.Totals(), c.Totals())
	}
}
