package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csg33k/hrdoc-generator/internal/config"
)

type fakePrompter struct {
	path      string
	overwrite bool
	asked     []string
}

func (f *fakePrompter) OutputPath(def string) (string, error) {
	f.asked = append(f.asked, "path:"+def)
	return f.path, nil
}

func (f *fakePrompter) Overwrite(path string) (bool, error) {
	f.asked = append(f.asked, "overwrite")
	return f.overwrite, nil
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(string) string { return "" })
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var sig bytes.Buffer
	png.Encode(&sig, image.NewGray(image.Rect(0, 0, 60, 20)))

	o := options{
		template:  write(t, dir, "carta.txt", "Caro {{Nome}}, sua função é {{cargo}}.\n{{assinatura}}"),
		fields:    write(t, dir, "fields.yaml", "nome: João\ncargo: Vendedor\n"),
		signature: write(t, dir, "sig.png", sig.String()),
		stamp:     filepath.Join(dir, "missing.png"),
		title:     "Carta",
		address:   "Rua A, 1",
	}
	ask := &fakePrompter{path: filepath.Join(dir, "out.pdf")}
	if err := run(context.Background(), testConfig(t), o, ask, quiet()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ask.asked) != 1 || ask.asked[0] != "path:carta.pdf" {
		t.Errorf("prompts = %v", ask.asked)
	}
	b, err := os.ReadFile(ask.path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}

	// Declining the overwrite leaves the file alone.
	if err := os.WriteFile(ask.path, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}
	o.out = ask.path
	ask.asked = nil
	if err := run(context.Background(), testConfig(t), o, ask, quiet()); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(ask.path); string(b) != "keep" || len(ask.asked) != 1 {
		t.Errorf("declined overwrite: content %q, prompts %v", b, ask.asked)
	}

	o.force = true
	if err := run(context.Background(), testConfig(t), o, ask, quiet()); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(ask.path); !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Error("forced overwrite did not write a PDF")
	}
}

func TestRun_ImagesLoadInSlotOrder(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	o := options{
		template:  write(t, dir, "carta.txt", "{{assinatura}}\n{{carimbo}}"),
		logo:      filepath.Join(dir, "logo.png"),
		signature: filepath.Join(dir, "sig.png"),
		stamp:     filepath.Join(dir, "stamp.png"),
		out:       filepath.Join(dir, "out.pdf"),
	}
	if err := run(context.Background(), testConfig(t), o, &fakePrompter{}, log); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := logs.String()
	l, s, st := strings.Index(out, "role=logo"), strings.Index(out, "role=signature"), strings.Index(out, "role=stamp")
	if l < 0 || !(l < s && s < st) {
		t.Errorf("images not tried logo, signature, stamp:\n%s", out)
	}
	if !strings.Contains(out, "every requested image failed") {
		t.Errorf("missing all-failed error:\n%s", out)
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	if _, err := parseFlags([]string{"-title", "x"}, &stderr); err == nil {
		t.Error("expected error without -template")
	}
	if !strings.Contains(stderr.String(), "-template is required") {
		t.Errorf("stderr = %q", stderr.String())
	}
	o, err := parseFlags([]string{"-template", "a.txt", "-out", "b.pdf", "-force"}, io.Discard)
	if err != nil || o.template != "a.txt" || o.out != "b.pdf" || !o.force {
		t.Errorf("options = %+v, %v", o, err)
	}
}

func TestLoadFields(t *testing.T) {
	dir := t.TempDir()
	fm, err := loadFields(write(t, dir, "f.yaml", "NOME: Ana\nCargo: Caixa\n"))
	if err != nil {
		t.Fatal(err)
	}
	if fm["nome"] != "Ana" || fm["cargo"] != "Caixa" {
		t.Errorf("fields = %v", fm)
	}
	if _, err := loadFields(write(t, dir, "bad.yaml", "- a\n- b\n")); err == nil {
		t.Error("expected error for a YAML list")
	}
}
