package ports

import (
	"context"
	"io"
	"time"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// EmployeeRepository defines employee persistence operations.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, e *domain.Employee) error
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	UpdateEmployee(ctx context.Context, e *domain.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error

	// DeleteDuplicatesByCPF keeps the oldest employee of every CPF and
	// returns how many rows were removed. Blank CPFs are never duplicates.
	DeleteDuplicatesByCPF(ctx context.Context) (int, error)
	// DeleteEmpty removes employees with a blank name.
	DeleteEmpty(ctx context.Context) (int, error)
}

// TemplateRepository defines document template persistence.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, t *domain.Template) error
	GetTemplate(ctx context.Context, id int64) (*domain.Template, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	UpdateTemplate(ctx context.Context, t *domain.Template) error
	DeleteTemplate(ctx context.Context, id int64) error
}

// AffiliateRepository defines affiliate (coligada) persistence.
type AffiliateRepository interface {
	CreateAffiliate(ctx context.Context, a *domain.Affiliate) error
	GetAffiliate(ctx context.Context, id int64) (*domain.Affiliate, error)
	ListAffiliates(ctx context.Context) ([]domain.Affiliate, error)
	UpdateAffiliate(ctx context.Context, a *domain.Affiliate) error
	DeleteAffiliate(ctx context.Context, id int64) error
}

// DocumentRepository records generated documents.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, d *domain.GeneratedDocument) error
	GetDocument(ctx context.Context, id int64) (*domain.GeneratedDocument, error)
	ListDocuments(ctx context.Context) ([]domain.GeneratedDocument, error)
	SetDocumentFile(ctx context.Context, id int64, path string) error
}

// Repository is the full persistence port.
type Repository interface {
	EmployeeRepository
	TemplateRepository
	AffiliateRepository
	DocumentRepository
}

// DocumentMeta describes a document being built.
type DocumentMeta struct {
	Title      string
	CreatedAt  time.Time
	PageWidth  float64
	PageHeight float64
}

// Document is a fixed-layout output document under construction.
// Coordinates are millimetres from the top-left corner.
type Document interface {
	AddPage()
	AddText(text string, x, y float64, style domain.FontStyle, size float64, ink domain.Gray)
	AddLine(x1, y1, x2, y2 float64)
	// AddImage draws img in the box reserved for role. The role, not
	// img.Role, identifies the image within the document.
	AddImage(role domain.ImageRole, img *domain.ImageAsset, x, y, w, h float64) error
	// Serialize writes the finished document. It reports any error the
	// backend recorded while the document was built.
	Serialize(w io.Writer) error
}

// DocumentFactory creates documents; one per render.
type DocumentFactory interface {
	NewDocument(meta DocumentMeta) Document
}

// ImageLoader fetches and decodes an image reference (URL or storage key).
type ImageLoader interface {
	Load(ctx context.Context, role domain.ImageRole, ref string) (*domain.ImageAsset, error)
}

// FileStore keeps uploaded images and generated documents.
type FileStore interface {
	Put(prefix, name string, data []byte) (string, error)
	Read(key string) ([]byte, error)
}
