package collections

import "testing"

func TestNormalizeItemID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain numeric", "42", "42"},
		{"zero padded numeric", "0042", "42"},
		{"all zeros", "000", "0"},
		{"whitespace", "  42 ", "42"},
		{"uuid mixed case", "A1B2C3D4-0000-0000-0000-000000000000", "a1b2c3d4-0000-0000-0000-000000000000"},
		{"slug", "Denim-Jacket", "denim-jacket"},
		{"empty", "  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeItemID(tc.in); got != tc.want {
				t.Fatalf("NormalizeItemID(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewLocalIDShape(t *testing.T) {
	id := NewLocalID()
	if !IsLocalID(id) {
		t.Fatalf("generated id %q does not carry the local prefix", id)
	}
	if id == NewLocalID() {
		t.Fatal("consecutive local ids must differ")
	}
}

func TestIsLocalID(t *testing.T) {
	if IsLocalID("3f8b4c1e-0000-0000-0000-000000000000") {
		t.Fatal("database id must not be treated as local")
	}
	if !IsLocalID("local-abc123") {
		t.Fatal("prefixed id must be treated as local")
	}
}
