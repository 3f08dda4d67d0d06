package jasondb

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	valid := []string{
		"u1",
		"user-42",
		"A.B.C",
		"with_underscore",
		"trailing.dot.",
		strings.Repeat("k", MaxKeyLength),
	}
	for _, key := range valid {
		if err := ValidateKey(key); err != nil {
			t.Errorf("ValidateKey(%q) = %v, want nil", key, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"\t",
		".hidden",
		"..",
		"a..b",
		"dir/file",
		`dir\file`,
		"nul\x00",
		"bell\x07",
		"del\x7f",
		"new\nline",
		strings.Repeat("k", MaxKeyLength+1),
	}
	for _, key := range invalid {
		if err := ValidateKey(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}
