// Package docgen is the document generation workflow: it loads an employee
// and a template, resolves placeholders, fetches images, lays the pages out
// and stores the finished PDF with a history entry.
package docgen

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/fields"
	"github.com/csg33k/hrdoc-generator/internal/ports"
	"github.com/csg33k/hrdoc-generator/internal/render"
	"github.com/csg33k/hrdoc-generator/internal/resolver"
)

const documentsPrefix = "documents"

var blockBreak = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|li|h[1-6])>`)

// Preview notices shown in place of image tokens whose image is registered.
var previewNotices = map[domain.ImageRole]string{
	domain.RoleSignature: "[ASSINATURA SERÁ INSERIDA AQUI]",
	domain.RoleStamp:     "[CARIMBO SERÁ INSERIDO AQUI]",
}

type Service struct {
	repo     ports.Repository
	images   ports.ImageLoader
	files    ports.FileStore
	renderer *render.Renderer
	cache    *resolver.Cache
	policy   *bluemonday.Policy
	log      *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock fixes the generation timestamp source.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func New(repo ports.Repository, images ports.ImageLoader, files ports.FileStore, r *render.Renderer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		images:   images,
		files:    files,
		renderer: r,
		cache:    resolver.NewCache(),
		policy:   bluemonday.StrictPolicy(),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// subject is everything a document is generated from.
type subject struct {
	employee  *domain.Employee
	affiliate *domain.Affiliate
	template  *domain.Template
}

func (s *Service) load(ctx context.Context, employeeID, templateID int64) (*subject, error) {
	e, err := s.repo.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	t, err := s.repo.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	sub := &subject{employee: e, template: t}
	if e.AffiliateID != nil {
		a, err := s.repo.GetAffiliate(ctx, *e.AffiliateID)
		switch {
		case err == nil:
			sub.affiliate = a
		case errors.Is(err, domain.ErrNotFound):
			s.log.Warn("employee affiliate missing", "employee_id", e.ID, "affiliate_id", *e.AffiliateID)
		default:
			return nil, fmt.Errorf("load affiliate: %w", err)
		}
	}
	return sub, nil
}

// imageRefs returns the reference for each role, preferring the
// employee's own image over the affiliate's.
func imageRefs(e *domain.Employee, a *domain.Affiliate) map[domain.ImageRole]string {
	pick := func(own, fallback string) string {
		if strings.TrimSpace(own) != "" {
			return own
		}
		return fallback
	}
	var aLogo, aSig, aStamp string
	if a != nil {
		aLogo, aSig, aStamp = a.LogoURL, a.SignatureURL, a.StampURL
	}
	return map[domain.ImageRole]string{
		domain.RoleLogo:      pick(e.LogoURL, aLogo),
		domain.RoleSignature: pick(e.SignatureURL, aSig),
		domain.RoleStamp:     pick(e.StampURL, aStamp),
	}
}

// BuildRequest resolves the template for the employee and loads the images
// it needs. Images are fetched one at a time; a failed image is logged and
// left out, and the document is still produced.
func (s *Service) BuildRequest(ctx context.Context, e *domain.Employee, a *domain.Affiliate, t *domain.Template) (domain.RenderRequest, domain.FieldMap) {
	fm := fields.FromEmployee(e, a)
	compiled := s.cache.Get(t)
	req := domain.RenderRequest{
		ResolvedText:  compiled.Execute(fm),
		DocumentTitle: t.Name,
		GeneratedAt:   s.now(),
		IssueDate:     e.LetterIssueDate,
	}
	if a != nil {
		req.FooterAddress = a.Address
	}

	refs := imageRefs(e, a)
	roles := append([]domain.ImageRole{domain.RoleLogo}, compiled.Images()...)
	var requested, failed int
	for _, role := range roles {
		ref := refs[role]
		if ref == "" {
			continue
		}
		requested++
		img, err := s.images.Load(ctx, role, ref)
		if err != nil {
			failed++
			s.log.Warn("image unavailable, omitting", "role", role, "ref", ref, "err", err)
			continue
		}
		switch role {
		case domain.RoleLogo:
			req.Logo = img
		case domain.RoleSignature:
			req.Signature = img
		case domain.RoleStamp:
			req.Stamp = img
		}
	}
	if requested > 0 && failed == requested {
		s.log.Error("every requested image failed to load", "employee_id", e.ID, "template_id", t.ID, "count", requested)
	}
	return req, fm
}

// Generate produces, stores and records one document.
func (s *Service) Generate(ctx context.Context, employeeID, templateID int64) (*domain.GeneratedDocument, []byte, error) {
	sub, err := s.load(ctx, employeeID, templateID)
	if err != nil {
		return nil, nil, err
	}
	req, fm := s.BuildRequest(ctx, sub.employee, sub.affiliate, sub.template)

	doc := &domain.GeneratedDocument{
		EmployeeID:   sub.employee.ID,
		EmployeeName: sub.employee.Name,
		TemplateID:   sub.template.ID,
		TemplateName: sub.template.Name,
		Data:         fm,
	}

	res, err := s.renderer.Render(req)
	if err != nil {
		doc.Status = domain.StatusFailed
		if rerr := s.repo.CreateDocument(ctx, doc); rerr != nil {
			s.log.Error("record failed document", "err", rerr)
		}
		return nil, nil, fmt.Errorf("render %q for %q: %w", sub.template.Name, sub.employee.Name, err)
	}

	key, err := s.files.Put(documentsPrefix, sub.template.Name+" "+sub.employee.Name+".pdf", res.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("store document: %w", err)
	}
	doc.Status = domain.StatusCompleted
	doc.FilePath = key
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, nil, fmt.Errorf("record document: %w", err)
	}
	s.log.Info("document generated",
		"document_id", doc.ID, "employee_id", doc.EmployeeID, "template_id", doc.TemplateID,
		"pages", len(res.Pages), "bytes", len(res.Bytes))
	return doc, res.Bytes, nil
}

// Preview is the text a user sees before generating.
type Preview struct {
	EmployeeName string
	TemplateName string
	Text         string
	// Unknown lists placeholders with no matching field; they render empty.
	Unknown []string
}

// Preview resolves the template without fetching images or rendering.
func (s *Service) Preview(ctx context.Context, employeeID, templateID int64) (*Preview, error) {
	sub, err := s.load(ctx, employeeID, templateID)
	if err != nil {
		return nil, err
	}
	fm := fields.FromEmployee(sub.employee, sub.affiliate)
	compiled := s.cache.Get(sub.template)

	refs := imageRefs(sub.employee, sub.affiliate)
	notices := make(map[domain.ImageRole]string)
	for role, n := range previewNotices {
		if refs[role] != "" {
			notices[role] = n
		}
	}
	p := &Preview{
		EmployeeName: sub.employee.Name,
		TemplateName: sub.template.Name,
		Text:         resolver.PreviewText(compiled.Execute(fm), notices),
	}
	for _, k := range compiled.Fields() {
		if _, ok := fm.Lookup(k); !ok {
			p.Unknown = append(p.Unknown, k)
		}
	}
	return p, nil
}

// Document returns a history entry and its stored PDF.
func (s *Service) Document(ctx context.Context, id int64) (*domain.GeneratedDocument, []byte, error) {
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if d.FilePath == "" {
		return nil, nil, fmt.Errorf("document %d has no file: %w", id, domain.ErrNotFound)
	}
	b, err := s.files.Read(d.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return d, b, nil
}

// SanitizeBody strips HTML pasted into a template body and unescapes the
// entities the policy leaves behind. Placeholders pass through untouched.
func (s *Service) SanitizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = blockBreak.ReplaceAllString(body, "\n")
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(body)))
}

// SaveTemplate sanitises and persists t, creating it when t.ID is zero.
func (s *Service) SaveTemplate(ctx context.Context, t *domain.Template) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Body = s.SanitizeBody(t.Body)
	if t.Name == "" || t.Body == "" {
		return fmt.Errorf("%w: template name and body are required", domain.ErrInvalidInput)
	}
	if t.ID == 0 {
		return s.repo.CreateTemplate(ctx, t)
	}
	if err := s.repo.UpdateTemplate(ctx, t); err != nil {
		return err
	}
	s.cache.Delete(t.ID)
	return nil
}

// DeleteTemplate removes a template and its compiled form.
func (s *Service) DeleteTemplate(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}
