package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	password := "correct-horse-battery"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == password {
		t.Error("hash should not equal the plaintext password")
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword should accept the correct password")
	}

	if CheckPassword("wrong-password", hash) {
		t.Error("CheckPassword should reject an incorrect password")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	hash1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	hash2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("two hashes of the same password should differ")
	}
}
