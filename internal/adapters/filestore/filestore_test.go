package filestore_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/csg33k/hrdoc-generator/internal/adapters/filestore"
	"github.com/csg33k/hrdoc-generator/internal/domain"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Logo Coligada.png", "logo_coligada.png"},
		{"Assinatura João.PNG", "assinatura_joao.png"},
		{"  ../../etc/passwd ", "etc_passwd"},
		{"***", "file"},
		{"", "file"},
		{strings.Repeat("a", 100) + ".png", strings.Repeat("a", 60)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := filestore.SanitizeName(tc.in, "file"); got != tc.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPutRead(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key, err := s.Put("signatures", "Assinatura Ana.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasPrefix(key, "signatures/") || !strings.HasSuffix(key, "-assinatura_ana.png") {
		t.Errorf("key = %q", key)
	}
	got, err := s.Read(key)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Errorf("Read = %q", got)
	}

	other, _ := s.Put("signatures", "Assinatura Ana.png", []byte("x"))
	if other == key {
		t.Error("two puts of the same name share a key")
	}
}

func TestRead_Errors(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Read("logos/missing.png"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing err = %v", err)
	}
	for _, key := range []string{"", "../secret", "logos/../../x"} {
		if _, err := s.Read(key); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Read(%q) err = %v, want ErrInvalidInput", key, err)
		}
	}
}
