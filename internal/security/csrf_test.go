package security

import "testing"

func TestCSRFTokenRoundTrip(t *testing.T) {
	gen := NewCSRFGenerator("test-secret-key")

	token, err := gen.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	if !gen.ValidateToken("session-abc", token) {
		t.Error("token should validate for the session it was issued to")
	}
}

func TestCSRFTokenRejection(t *testing.T) {
	gen := NewCSRFGenerator("test-secret-key")

	token, err := gen.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		token     string
	}{
		{"wrong session", "session-xyz", token},
		{"tampered token", "session-abc", token + "x"},
		{"empty token", "session-abc", ""},
		{"garbage token", "session-abc", "not-a-real-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if gen.ValidateToken(tt.sessionID, tt.token) {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestCSRFTokenDifferentSecrets(t *testing.T) {
	gen1 := NewCSRFGenerator("secret-one")
	gen2 := NewCSRFGenerator("secret-two")

	token, err := gen1.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if gen2.ValidateToken("session-abc", token) {
		t.Error("token signed with one secret should not validate under another")
	}
}
