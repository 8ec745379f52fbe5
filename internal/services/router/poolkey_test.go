package router

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/common"
)

func TestDerivePoolKeyOrderIndependent(t *testing.T) {
	fee := uint256.NewInt(30)
	a := primaryToken(7)
	b := secondaryToken(3)

	k1, err := DerivePoolKey(a, b, fee)
	if err != nil {
		t.Fatalf("DerivePoolKey(a, b): %v", err)
	}
	k2, err := DerivePoolKey(b, a, fee)
	if err != nil {
		t.Fatalf("DerivePoolKey(b, a): %v", err)
	}

	if k1.Hash() != k2.Hash() {
		t.Errorf("pool ids differ by argument order: %s vs %s", k1.Hash(), k2.Hash())
	}
	if k1.Token0 != k2.Token0 || !k1.ID0.Eq(k2.ID0) {
		t.Errorf("slot 0 differs by argument order")
	}
}

func TestDerivePoolKeyNativeInSlotZero(t *testing.T) {
	native := nativeAsset()
	other := secondaryToken(42)

	k1, err := DerivePoolKey(native, other, uint256.NewInt(100))
	if err != nil {
		t.Fatalf("DerivePoolKey(native, other): %v", err)
	}
	k2, err := DerivePoolKey(other, native, uint256.NewInt(100))
	if err != nil {
		t.Fatalf("DerivePoolKey(other, native): %v", err)
	}

	if k1.Token0 != native.Origin || !k1.ID0.IsZero() {
		t.Errorf("native not pinned to slot 0 with id 0: token0=%s id0=%s", k1.Token0, k1.ID0.Dec())
	}
	if k2.Token0 != native.Origin || !k2.ID0.IsZero() {
		t.Errorf("reversed args: native not pinned to slot 0: token0=%s id0=%s", k2.Token0, k2.ID0.Dec())
	}
	if k1.Hash() != k2.Hash() {
		t.Errorf("native pair ids differ by argument order")
	}
}

func TestDerivePoolKeyIdenticalTokens(t *testing.T) {
	tok := secondaryToken(9)
	if _, err := DerivePoolKey(tok, tok, uint256.NewInt(30)); !errors.Is(err, common.ErrInvalidPair) {
		t.Errorf("identical tokens: err = %v, want ErrInvalidPair", err)
	}
}

func TestDerivePoolKeyClassOrdering(t *testing.T) {
	// Class breaks the tie before ids do: a Primary token with a large id
	// still sorts ahead of a Secondary token with a small one.
	pri := primaryToken(1000)
	sec := secondaryToken(1)

	key, err := DerivePoolKey(sec, pri, uint256.NewInt(30))
	if err != nil {
		t.Fatalf("DerivePoolKey: %v", err)
	}
	if key.Token0 != pri.Origin || !key.ID0.Eq(uint256.NewInt(1000)) {
		t.Errorf("slot 0 = %s/%s, want the Primary-class token", key.Token0, key.ID0.Dec())
	}
}

func TestDerivePoolKeyExternalTiebreak(t *testing.T) {
	// Two external tokens share localId 0; the origin address must decide
	// slots so the derivation stays order-independent.
	x := externalToken("0x9000000000000000000000000000000000000009")
	y := externalToken("0x3000000000000000000000000000000000000003")

	k1, err := DerivePoolKey(x, y, uint256.NewInt(30))
	if err != nil {
		t.Fatalf("DerivePoolKey: %v", err)
	}
	k2, err := DerivePoolKey(y, x, uint256.NewInt(30))
	if err != nil {
		t.Fatalf("DerivePoolKey: %v", err)
	}
	if k1.Hash() != k2.Hash() {
		t.Errorf("external pair ids differ by argument order")
	}
	if k1.Token0 != y.Origin {
		t.Errorf("slot 0 = %s, want lower origin address %s", k1.Token0, y.Origin)
	}
}

func TestPoolKeyHashDistinguishesFee(t *testing.T) {
	a := primaryToken(1)
	b := primaryToken(2)

	k30, _ := DerivePoolKey(a, b, uint256.NewInt(30))
	k100, _ := DerivePoolKey(a, b, uint256.NewInt(100))
	if k30.Hash() == k100.Hash() {
		t.Errorf("pool ids collide across fee parameters")
	}
}

func BenchmarkDerivePoolKey(b *testing.B) {
	fee := uint256.NewInt(30)
	x := primaryToken(7)
	y := secondaryToken(3)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		key, _ := DerivePoolKey(x, y, fee)
		_ = key.Hash()
	}
}
