package auth

import (
	"bytes"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name         string
		masterSecret []byte
		purpose      string
		wantErr      bool
	}{
		{name: "valid derivation", masterSecret: []byte("this-is-a-secure-master-secret-for-testing"), purpose: "test-purpose-v1"},
		{name: "empty master secret", masterSecret: []byte{}, purpose: "test-purpose-v1", wantErr: true},
		{name: "nil master secret", masterSecret: nil, purpose: "test-purpose-v1", wantErr: true},
		{name: "empty purpose string is allowed", masterSecret: []byte("test-secret"), purpose: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey(tt.masterSecret, tt.purpose)
			if tt.wantErr {
				if err != ErrInvalidMasterSecret {
					t.Fatalf("DeriveKey() error = %v, want %v", err, ErrInvalidMasterSecret)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeriveKey() unexpected error: %v", err)
			}
			if len(key) != DerivedKeyLength {
				t.Errorf("DeriveKey() key length = %d, want %d", len(key), DerivedKeyLength)
			}
		})
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	secret := []byte("short")
	first, err := DeriveCSRFKey(secret)
	if err != nil {
		t.Fatal(err)
	}
	second, err := DeriveCSRFKey(secret)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same secret should derive the same CSRF key")
	}
}

func TestDerivedKeysAreIndependent(t *testing.T) {
	secret := []byte("shared-master-secret-for-all-keys")

	profileKey, err := DeriveProfileKey(secret)
	if err != nil {
		t.Fatal(err)
	}
	csrfKey, err := DeriveCSRFKey(secret)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(profileKey, csrfKey) {
		t.Error("profile and CSRF keys should differ for the same secret")
	}
	if bytes.Equal(profileKey, secret) || bytes.Equal(csrfKey, secret) {
		t.Error("derived keys should not equal the secret")
	}
}
