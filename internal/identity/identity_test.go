package identity_test

import (
	"testing"

	"github.com/reoring/anyskema/internal/identity"
)

func TestOf_ReferentialKinds(t *testing.T) {
	type node struct{ v int }
	a := &node{v: 1}
	b := &node{v: 1}

	ka, ok := identity.Of(a)
	if !ok {
		t.Fatalf("pointer must carry an identity")
	}
	ka2, _ := identity.Of(a)
	if ka != ka2 {
		t.Fatalf("same referent must produce the same key")
	}
	kb, _ := identity.Of(b)
	if ka == kb {
		t.Fatalf("distinct referents must produce distinct keys")
	}

	m := map[string]any{}
	if _, ok := identity.Of(m); !ok {
		t.Fatalf("maps must carry an identity")
	}
}

func TestOf_NonReferential(t *testing.T) {
	type node struct{ v int }
	for _, v := range []any{nil, 42, "text", node{v: 1}, (*node)(nil)} {
		if _, ok := identity.Of(v); ok {
			t.Fatalf("Of(%#v) must report no identity", v)
		}
	}
}
