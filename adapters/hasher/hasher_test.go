package hasher_test

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/askhub/askhub/adapters/hasher"
)

func TestBcrypt_RoundTrip(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	digest, err := h.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(digest) == 0 || digest[0] != '$' {
		t.Fatalf("digest %q is not bcrypt-shaped", digest)
	}

	if !h.Compare(digest, "correct-horse") {
		t.Error("matching password rejected")
	}
	if h.Compare(digest, "battery-staple") {
		t.Error("wrong password accepted")
	}
}

func TestBcrypt_SaltsEveryDigest(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	a, _ := h.Hash("password")
	b, _ := h.Hash("password")
	if string(a) == string(b) {
		t.Error("identical digests for the same password, salt missing")
	}
}

func TestBcrypt_OutOfRangeCostDefaults(t *testing.T) {
	for _, cost := range []int{-1, 0, 100} {
		h := hasher.NewBcrypt(cost)
		digest, err := h.Hash("pw")
		if err != nil {
			t.Fatalf("cost %d: Hash failed: %v", cost, err)
		}
		if got, _ := bcrypt.Cost(digest); got != bcrypt.DefaultCost {
			t.Errorf("cost %d: digest cost = %d, want default %d", cost, got, bcrypt.DefaultCost)
		}
	}
}

func TestBcrypt_RejectsGarbageDigest(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	if h.Compare([]byte("not-a-digest"), "password") {
		t.Error("garbage digest accepted")
	}
	if h.Compare(nil, "password") {
		t.Error("nil digest accepted")
	}
}

func TestFake_PlainEquality(t *testing.T) {
	h := hasher.Fake{}

	digest, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if string(digest) != "secret" {
		t.Errorf("digest = %q, want plaintext", digest)
	}
	if !h.Compare(digest, "secret") || h.Compare(digest, "other") {
		t.Error("Compare is not plain equality")
	}
}
