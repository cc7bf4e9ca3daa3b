// Command hrdoc renders one document from a template file and a YAML field
// file, without the web UI or database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"github.com/csg33k/hrdoc-generator/internal/adapters/assets"
	"github.com/csg33k/hrdoc-generator/internal/adapters/filestore"
	"github.com/csg33k/hrdoc-generator/internal/adapters/pdf"
	"github.com/csg33k/hrdoc-generator/internal/config"
	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/layout"
	"github.com/csg33k/hrdoc-generator/internal/render"
	"github.com/csg33k/hrdoc-generator/internal/resolver"
)

type options struct {
	template  string
	fields    string
	logo      string
	signature string
	stamp     string
	address   string
	title     string
	out       string
	layout    string
	force     bool
}

// prompter asks the user what the flags left open.
type prompter interface {
	OutputPath(def string) (string, error)
	Overwrite(path string) (bool, error)
}

type surveyPrompter struct{}

func (surveyPrompter) OutputPath(def string) (string, error) {
	var out string
	err := survey.AskOne(&survey.Input{Message: "Output file:", Default: def}, &out, survey.WithValidator(survey.Required))
	return out, err
}

func (surveyPrompter) Overwrite(path string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: fmt.Sprintf("%s exists. Overwrite?", path)}, &ok)
	return ok, err
}

// localFiles reads image references that are not URLs from disk.
type localFiles struct{}

func (localFiles) Read(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return b, err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := cfg.Logger(os.Stderr)

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if err := run(context.Background(), cfg, opts, surveyPrompter{}, log); err != nil {
		log.Error("hrdoc failed", "err", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("hrdoc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.template, "template", "", "template body file (required)")
	fs.StringVar(&o.fields, "fields", "", "YAML file of placeholder values")
	fs.StringVar(&o.logo, "logo", "", "logo image file or URL")
	fs.StringVar(&o.signature, "signature", "", "signature image file or URL")
	fs.StringVar(&o.stamp, "stamp", "", "stamp image file or URL")
	fs.StringVar(&o.address, "address", "", "footer address")
	fs.StringVar(&o.title, "title", "", "document title")
	fs.StringVar(&o.out, "out", "", "output PDF (prompted when empty)")
	fs.StringVar(&o.layout, "layout", "", "layout YAML (overrides LAYOUT_CONFIG)")
	fs.BoolVar(&o.force, "force", false, "overwrite the output without asking")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.template == "" {
		fmt.Fprintln(stderr, "hrdoc: -template is required")
		fs.Usage()
		return o, errors.New("missing -template")
	}
	return o, nil
}

func run(ctx context.Context, cfg *config.Config, o options, ask prompter, log *slog.Logger) error {
	body, err := os.ReadFile(o.template)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	fm, err := loadFields(o.fields)
	if err != nil {
		return err
	}

	lc := cfg.Layout
	if o.layout != "" {
		if lc, err = layout.LoadConfig(o.layout); err != nil {
			return err
		}
	}
	engine, err := layout.New(lc, pdf.NewMeasurer(), layout.WithLogger(log))
	if err != nil {
		return err
	}

	req := domain.RenderRequest{
		ResolvedText:  resolver.Resolve(string(body), fm),
		DocumentTitle: o.title,
		FooterAddress: o.address,
		GeneratedAt:   time.Now(),
	}
	loader := assets.New(localFiles{}, cfg.FetchTimeout, cfg.MaxImagePx, log)
	var requested, failed int
	for _, slot := range []struct {
		role domain.ImageRole
		ref  string
		dst  **domain.ImageAsset
	}{
		{domain.RoleLogo, o.logo, &req.Logo},
		{domain.RoleSignature, o.signature, &req.Signature},
		{domain.RoleStamp, o.stamp, &req.Stamp},
	} {
		if slot.ref == "" {
			continue
		}
		requested++
		img, err := loader.Load(ctx, slot.role, slot.ref)
		if err != nil {
			failed++
			log.Warn("image unavailable, omitting", "role", slot.role, "ref", slot.ref, "err", err)
			continue
		}
		*slot.dst = img
	}
	if requested > 0 && failed == requested {
		log.Error("every requested image failed to load", "count", requested)
	}

	out, err := outputPath(o, ask)
	if err != nil || out == "" {
		return err
	}

	res, err := render.New(engine, pdf.NewFactory(pdf.WithLogger(log))).Render(req)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, res.Bytes, 0o644); err != nil {
		return err
	}
	log.Info("document written", "path", out, "pages", len(res.Pages), "bytes", len(res.Bytes))
	return nil
}

// loadFields reads a flat YAML mapping. Keys are matched case-insensitively.
func loadFields(path string) (domain.FieldMap, error) {
	fm := domain.FieldMap{}
	if path == "" {
		return fm, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse fields %s: %w", path, err)
	}
	for k, v := range m {
		fm[resolver.NormalizeKey(k)] = v
	}
	return fm, nil
}

// outputPath settles where the PDF goes. An empty result with a nil error
// means the user declined to overwrite.
func outputPath(o options, ask prompter) (string, error) {
	out := o.out
	if out == "" {
		def := filestore.SanitizeName(strings.TrimSpace(o.title), "documento") + ".pdf"
		var err error
		if out, err = ask.OutputPath(def); err != nil {
			return "", err
		}
	}
	if _, err := os.Stat(out); err == nil && !o.force {
		ok, err := ask.Overwrite(out)
		if err != nil || !ok {
			return "", err
		}
	}
	return out, nil
}
