package security

import "testing"

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(4)
	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the input")
	}

	if err := hasher.Compare(hash, "secret1"); err != nil {
		t.Fatalf("compare with correct password: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Fatal("compare with wrong password must fail")
	}
}

func TestBcryptHasherSaltsEveryHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(4)
	first, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of one password must differ")
	}
}
