package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret-password" {
		t.Fatal("hash equals plaintext")
	}

	if !Verify("secret-password", hash) {
		t.Error("Verify rejected the correct password")
	}
	if Verify("wrong-password", hash) {
		t.Error("Verify accepted a wrong password")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("same-input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash("same-input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("some-refresh-token")
	h2 := HashToken("some-refresh-token")
	if h1 != h2 {
		t.Error("HashToken is not deterministic")
	}
	if h1 == HashToken("another-token") {
		t.Error("different tokens hash to the same value")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}
