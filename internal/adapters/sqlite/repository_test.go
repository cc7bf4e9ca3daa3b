package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/csg33k/hrdoc-generator/internal/adapters/sqlite"
	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "hrdoc.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return repo
}

func ptr[T any](v T) *T { return &v }

func names(list []domain.Employee) []string {
	var out []string
	for _, e := range list {
		out = append(out, e.Name)
	}
	return out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestMigrate_Idempotent(t *testing.T) {
	repo := newRepo(t)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestNew_DSNForms(t *testing.T) {
	tests := []struct {
		name string
		dsn  func(dir string) string
	}{
		{"plain path", func(dir string) string { return filepath.Join(dir, "a.db") }},
		{"uri with query", func(dir string) string { return "file:" + filepath.Join(dir, "b.db") + "?mode=rwc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := sqlite.New(tt.dsn(t.TempDir()))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			t.Cleanup(func() { repo.Close() })
			ctx := context.Background()
			if err := repo.Migrate(ctx); err != nil {
				t.Fatalf("Migrate: %v", err)
			}
			// Foreign keys are enforced only when the pragmas reached the driver.
			err = repo.CreateEmployee(ctx, &domain.Employee{Name: "Ana", AffiliateID: ptr(int64(999))})
			if err == nil {
				t.Error("employee with unknown affiliate was accepted")
			}
		})
	}
}

func TestEmployee_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	aff := &domain.Affiliate{Name: "Loja Centro", Address: "Rua A, 1"}
	if err := repo.CreateAffiliate(ctx, aff); err != nil {
		t.Fatal(err)
	}
	hire := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	e := &domain.Employee{
		Name:        "João Silva",
		CPF:         "123.456.789-00",
		Position:    "Vendedor",
		Salary:      ptr(int64(250050)),
		HireDate:    &hire,
		AffiliateID: &aff.ID,
	}
	if err := repo.CreateEmployee(ctx, e); err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if e.ID == 0 {
		t.Fatal("ID not assigned")
	}

	got, err := repo.GetEmployee(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEmployee: %v", err)
	}
	opts := cmpopts.IgnoreFields(domain.Employee{}, "CreatedAt", "UpdatedAt", "HireDate")
	if diff := cmp.Diff(e, got, opts); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	if got.HireDate == nil || !got.HireDate.Equal(hire) {
		t.Errorf("HireDate = %v, want %v", got.HireDate, hire)
	}
	if got.LetterIssueDate != nil {
		t.Errorf("LetterIssueDate = %v, want nil", got.LetterIssueDate)
	}

	got.Position = "Gerente"
	got.Salary = nil
	if err := repo.UpdateEmployee(ctx, got); err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	again, _ := repo.GetEmployee(ctx, e.ID)
	if again.Position != "Gerente" || again.Salary != nil {
		t.Errorf("update not persisted: %+v", again)
	}

	if err := repo.DeleteEmployee(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetEmployee(ctx, e.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteEmployee(ctx, e.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestEmployee_Cleanup(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	for _, e := range []domain.Employee{
		{Name: "Ana", CPF: "111"},
		{Name: "Ana (dup)", CPF: "111"},
		{Name: "Bruno", CPF: ""},
		{Name: "Carla", CPF: ""},
		{Name: "   ", CPF: "222"},
		{Name: "Diego", CPF: " 111 "},
	} {
		e := e
		if err := repo.CreateEmployee(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	n, err := repo.DeleteDuplicatesByCPF(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("duplicates removed = %d, want 2", n)
	}
	n, err = repo.DeleteEmpty(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("empty removed = %d, want 1", n)
	}

	list, err := repo.ListEmployees(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Ana", "Bruno", "Carla"}, names(list)); diff != "" {
		t.Errorf("remaining (-want +got):\n%s", diff)
	}
}

func TestTemplate_UpdateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	tpl := &domain.Template{Name: "Declaração", Body: "Olá {{nome}}"}
	if err := repo.CreateTemplate(ctx, tpl); err != nil {
		t.Fatal(err)
	}
	before := tpl.UpdatedAt
	time.Sleep(2 * time.Millisecond)
	tpl.Body = "Oi {{nome}}"
	if err := repo.UpdateTemplate(ctx, tpl); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Body != "Oi {{nome}}" {
		t.Errorf("Body = %q", got.Body)
	}
	if !got.UpdatedAt.After(before) {
		t.Errorf("UpdatedAt %v not after %v", got.UpdatedAt, before)
	}
	if err := repo.UpdateTemplate(ctx, &domain.Template{ID: 999, Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update missing err = %v", err)
	}
}

func TestDocuments_HistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	for i, name := range []string{"primeiro", "segundo"} {
		d := &domain.GeneratedDocument{
			EmployeeID:   1,
			EmployeeName: name,
			TemplateID:   int64(i + 1),
			Status:       domain.StatusCompleted,
			Data:         domain.FieldMap{"nome": name},
		}
		if err := repo.CreateDocument(ctx, d); err != nil {
			t.Fatal(err)
		}
		if err := repo.SetDocumentFile(ctx, d.ID, "documents/"+name+".pdf"); err != nil {
			t.Fatal(err)
		}
	}
	list, err := repo.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].EmployeeName != "segundo" {
		t.Fatalf("history = %+v", list)
	}
	if list[0].FilePath != "documents/segundo.pdf" || list[0].Data["nome"] != "segundo" {
		t.Errorf("document not persisted: %+v", list[0])
	}
	if _, err := repo.GetDocument(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetDocument missing err = %v", err)
	}
}
