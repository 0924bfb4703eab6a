package vault

import (
	"errors"
	"testing"
)

func TestParseRef(t *testing.T) {
	path, key, err := ParseRef("vault:secret/sitegate#dsn")
	if err != nil || path != "secret/sitegate" || key != "dsn" {
		t.Fatalf("ParseRef = %q, %q, %v", path, key, err)
	}
	for _, bad := range []string{"secret/sitegate#dsn", "vault:secret/sitegate", "vault:secret#dsn", "vault:secret/x#"} {
		if _, _, err := ParseRef(bad); !errors.Is(err, ErrBadRef) {
			t.Fatalf("ParseRef(%q) err = %v, want ErrBadRef", bad, err)
		}
	}
}
