package substrate

import (
	"testing"

	"gorm.io/datatypes"
)

func TestBlockState_IsActive(t *testing.T) {
	for _, s := range []BlockState{BlockStateProposed, BlockStateAccepted, BlockStateLocked, BlockStateConstant} {
		if !s.IsActive() {
			t.Fatalf("%s should be active", s)
		}
	}
	for _, s := range []BlockState{BlockStateSuperseded, BlockStateRejected, BlockState("")} {
		if s.IsActive() {
			t.Fatalf("%q should not be active", s)
		}
	}
}

func TestBlock_PolicyAndMetadata(t *testing.T) {
	b := &Block{
		RefreshPolicy: datatypes.JSON([]byte(`{"ttl_hours": 240, "auto_refresh": true}`)),
		Metadata:      datatypes.JSON([]byte(`{"anchor_label": "Problem"}`)),
	}
	p := b.Policy()
	if p == nil || p.TTLHours != 240 || !p.AutoRefresh {
		t.Fatalf("unexpected policy: %#v", p)
	}
	if got := b.MetadataMap()["anchor_label"]; got != "Problem" {
		t.Fatalf("unexpected metadata label: %v", got)
	}

	broken := &Block{RefreshPolicy: datatypes.JSON([]byte(`{not json`))}
	if broken.Policy() != nil {
		t.Fatalf("malformed policy should decode to nil")
	}
	if (&Block{}).Role() != "" {
		t.Fatalf("untagged block should have empty role")
	}
}
