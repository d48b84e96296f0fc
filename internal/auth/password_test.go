package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("Secret1!", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "Secret1!" {
		t.Fatalf("hash equals plaintext")
	}
	if err := ComparePassword(hash, "Secret1!"); err != nil {
		t.Fatalf("ComparePassword rejected correct password: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("ComparePassword accepted wrong password")
	}
}
