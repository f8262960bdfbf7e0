package auth

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("secret", 1, "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AdminID != 1 || claims.Username != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a JTI")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret", 1, "admin")

	if _, err := ValidateToken("other", token); err == nil {
		t.Error("expected validation failure with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected validation failure for garbage token")
	}
}

func TestTokensHaveUniqueJTI(t *testing.T) {
	a, _ := GenerateToken("secret", 1, "admin")
	b, _ := GenerateToken("secret", 1, "admin")
	if a == b {
		t.Error("two tokens for the same admin must differ")
	}
}
