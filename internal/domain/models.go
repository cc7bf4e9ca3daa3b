package domain

import (
	"strings"
	"time"
)

// FieldMap maps a lower-case placeholder key to its display value.
// Values are already formatted by the caller (dates, currency).
type FieldMap map[string]string

// Lookup returns the value for key, matching case-insensitively.
func (f FieldMap) Lookup(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	if v, ok := f[key]; ok {
		return v, true
	}
	v, ok := f[strings.ToLower(key)]
	return v, ok
}

// Template is a named document body containing {{key}} placeholders.
type Template struct {
	ID          int64
	Name        string
	Type        string // e.g. "carta", "declaracao"
	Description string
	Body        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ImageRole identifies which slot of the page an image belongs to.
type ImageRole string

const (
	RoleLogo      ImageRole = "logo"
	RoleSignature ImageRole = "signature"
	RoleStamp     ImageRole = "stamp"
)

// ImageAsset is an already-fetched, already-decoded image. The renderer
// only ever sees these, never a URL.
type ImageAsset struct {
	Role   ImageRole
	Width  int // pixels
	Height int // pixels
	Bytes  []byte
	// Format is the encoded format of Bytes ("png", "jpeg").
	Format string
}

// Valid reports whether the asset can be placed on a page.
func (a *ImageAsset) Valid() bool {
	return a != nil && a.Width > 0 && a.Height > 0 && len(a.Bytes) > 0
}

// RenderRequest is the unit of work for one generated document.
type RenderRequest struct {
	ResolvedText  string
	DocumentTitle string
	Logo          *ImageAsset
	Signature     *ImageAsset
	Stamp         *ImageAsset
	FooterAddress string
	GeneratedAt   time.Time
	// IssueDate is printed in the header; GeneratedAt is used when nil.
	IssueDate *time.Time
}

// Asset returns the request's image for role, or nil.
func (r *RenderRequest) Asset(role ImageRole) *ImageAsset {
	switch role {
	case RoleLogo:
		return r.Logo
	case RoleSignature:
		return r.Signature
	case RoleStamp:
		return r.Stamp
	}
	return nil
}

// Employee is a person documents are generated for.
type Employee struct {
	ID               int64
	Name             string
	Email            string
	Phone            string
	Position         string
	Department       string
	Company          string
	StoreName        string
	RG               string
	CPF              string
	CTPSNumber       string // numero da carteira de trabalho
	CTPSSeries       string
	Address          string
	City             string
	State            string
	ZIPCode          string
	EmergencyContact string
	EmergencyPhone   string
	Salary           *int64 // cents
	HireDate         *time.Time
	LetterIssueDate  *time.Time
	AffiliateID      *int64
	LogoURL          string
	SignatureURL     string
	StampURL         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Affiliate (coligada) is a company of the group. Its images and address
// are used when the employee carries none of their own.
type Affiliate struct {
	ID           int64
	Name         string
	CNPJ         string
	Address      string
	LogoURL      string
	SignatureURL string
	StampURL     string
	CreatedAt    time.Time
}

// Document generation statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// GeneratedDocument is a history entry for one generation action.
type GeneratedDocument struct {
	ID           int64
	EmployeeID   int64
	EmployeeName string
	TemplateID   int64
	TemplateName string
	Status       string
	FilePath     string
	Data         FieldMap
	CreatedAt    time.Time
}
