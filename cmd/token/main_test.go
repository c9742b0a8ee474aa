package main

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/cart/internal/service"
)

func TestParseTokenFlagsRoundTrip(t *testing.T) {
	const secret = "token-cli-secret-0123456789abcdef"

	opts, err := parseTokenFlags([]string{"-user", "42", "-roles", " support, ,admin ", "-hours", "2"}, 24, io.Discard)
	if err != nil {
		t.Fatalf("parse flags failed: %v", err)
	}
	if opts.UserID != 42 || opts.Hours != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if strings.Join(opts.Roles, ",") != "support,admin" {
		t.Fatalf("unexpected roles: %v", opts.Roles)
	}

	token, expiresAt, err := service.GenerateUserJWT(secret, opts.UserID, opts.Roles, opts.Hours)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if d := time.Until(expiresAt); d < time.Hour || d > 2*time.Hour {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	claims, err := service.ParseUserJWT(secret, token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id want 42 got %d", claims.UserID)
	}
	if strings.Join(claims.Roles, ",") != "support,admin" {
		t.Fatalf("roles not preserved: %v", claims.Roles)
	}
}

func TestParseTokenFlagsDefaults(t *testing.T) {
	opts, err := parseTokenFlags([]string{"-user", "7"}, 24, io.Discard)
	if err != nil {
		t.Fatalf("parse flags failed: %v", err)
	}
	if opts.Hours != 24 {
		t.Fatalf("hours should fall back to config, got %d", opts.Hours)
	}
	if len(opts.Roles) != 0 {
		t.Fatalf("roles should be empty, got %v", opts.Roles)
	}
}

func TestParseTokenFlagsRejectsBadInput(t *testing.T) {
	cases := [][]string{
		{},
		{"-user", "0"},
		{"-user", "abc"},
		{"-unknown"},
	}
	for _, args := range cases {
		if _, err := parseTokenFlags(args, 24, io.Discard); err == nil {
			t.Fatalf("args %v should be rejected", args)
		}
	}
}
