package crypto

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !IsBcryptHash(hash) {
		t.Fatalf("expected bcrypt-formatted hash, got %q", hash)
	}
	if err := CheckPassword(hash, "secret"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected password mismatch")
	}
}

func TestVerifyStoredHashedPath(t *testing.T) {
	hash, _ := HashPassword("pw1")
	ok, upgrade := VerifyStored(hash, "pw1")
	if !ok || upgrade {
		t.Fatalf("hashed match should not request upgrade (ok=%v upgrade=%v)", ok, upgrade)
	}
	ok, upgrade = VerifyStored(hash, "pw2")
	if ok || upgrade {
		t.Fatalf("hashed mismatch should fail cleanly (ok=%v upgrade=%v)", ok, upgrade)
	}
}

func TestVerifyStoredLegacyPath(t *testing.T) {
	ok, upgrade := VerifyStored("plaintext", "plaintext")
	if !ok || !upgrade {
		t.Fatalf("legacy match must request upgrade (ok=%v upgrade=%v)", ok, upgrade)
	}
	ok, upgrade = VerifyStored("plaintext", "other")
	if ok || upgrade {
		t.Fatalf("legacy mismatch must fail without upgrade (ok=%v upgrade=%v)", ok, upgrade)
	}
}

func TestVerifyStoredEmptyNeverMatches(t *testing.T) {
	if ok, _ := VerifyStored("", ""); ok {
		t.Fatalf("empty stored password must never match")
	}
	if ok, _ := VerifyStored("", "anything"); ok {
		t.Fatalf("empty stored password must never match")
	}
}
