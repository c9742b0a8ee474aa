package service

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestUserJWTRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateUserJWT("secret-for-tests", 42, []string{"support"}, 1)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatalf("expiresAt should be set")
	}
	claims, err := ParseUserJWT("secret-for-tests", token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != 42 || len(claims.Roles) != 1 || claims.Roles[0] != "support" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseUserJWTRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateUserJWT("secret-a", 7, nil, 1)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := ParseUserJWT("secret-b", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid got %v", err)
	}
}

func TestParseUserJWTRejectsOtherAlgorithm(t *testing.T) {
	claims := UserJWTClaims{UserID: 7}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseUserJWT("secret", signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("HS512 token should be rejected, got %v", err)
	}
}

func TestGenerateUserJWTRequiresUser(t *testing.T) {
	if _, _, err := GenerateUserJWT("secret", 0, nil, 1); err == nil {
		t.Fatalf("zero user id should be rejected")
	}
	if _, _, err := GenerateUserJWT(" ", 1, nil, 1); err == nil {
		t.Fatalf("empty secret should be rejected")
	}
}
