package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" || hash == "" {
		t.Fatalf("hash must not echo the password")
	}

	if !CheckPassword(hash, "hunter22") {
		t.Fatalf("correct password must verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password must not verify")
	}
	if CheckPassword("not-a-hash", "hunter22") {
		t.Fatalf("garbage hash must not verify")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("hashes of the same password must differ")
	}
}
