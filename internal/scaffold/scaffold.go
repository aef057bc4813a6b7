package scaffold

import (
	"context"
	"embed"
	"strings"

	"go.uber.org/zap"

	"github.com/tripkit-labs/tripkit/internal/logger"
	"github.com/tripkit-labs/tripkit/internal/trip"
	"github.com/tripkit-labs/tripkit/internal/vault"
)

//go:embed defaults/*.md
var defaultsFS embed.FS

// FolderLabel labels the trip folder in reports.
const FolderLabel = "Trip Folder"

// defaultFiles maps artifact labels to their embedded default bodies.
var defaultFiles = map[string]string{
	trip.LabelItinerary:   "defaults/itinerary.md",
	trip.LabelPackingList: "defaults/packing-list.md",
}

// TemplateSource points at a template document inside the vault.
type TemplateSource struct {
	Path string
}

// Templates maps artifact labels to their template. A missing label means
// the artifact has no template and gets its default body.
type Templates map[string]TemplateSource

// Body produces the content of a document that is about to be created.
// source is the template path the content came from, or "" for a default.
type Body func(ctx context.Context) (content, source string)

// DefaultBody returns the built-in body for an artifact label.
func DefaultBody(label string) string {
	if name, ok := defaultFiles[label]; ok {
		if data, err := defaultsFS.ReadFile(name); err == nil {
			return string(data)
		}
	}
	return "# " + label + "\n"
}

// Engine performs idempotent folder and document creation in a vault.
type Engine struct {
	vault    vault.Vault
	defaults map[string]string
}

// Option customizes an Engine during construction.
type Option func(*Engine)

// WithDefaultBody overrides the built-in body used for label.
func WithDefaultBody(label, body string) Option {
	return func(e *Engine) {
		e.defaults[label] = body
	}
}

// New returns an engine operating on v.
func New(v vault.Vault, opts ...Option) *Engine {
	e := &Engine{
		vault:    v,
		defaults: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scaffold creates the trip folder and then each artifact document in order.
// It always returns one report for the folder followed by one per artifact;
// a failed step never stops the steps after it.
func (e *Engine) Scaffold(ctx context.Context, loc trip.Location, templates Templates) []Report {
	ctx = logger.WithFields(ctx, zap.String("trip_folder", loc.FolderPath))

	reports := make([]Report, 0, len(loc.Artifacts)+1)
	reports = append(reports, e.EnsureFolder(ctx, FolderLabel, loc.FolderPath))

	for _, a := range loc.Artifacts {
		label := a.Label
		reports = append(reports, e.EnsureDocument(ctx, label, a.Path, func(ctx context.Context) (string, string) {
			return e.Resolve(ctx, label, templates)
		}))
	}

	s := Summarize(reports)
	logger.Info(ctx, "scaffold finished",
		zap.Int("created", s.Created),
		zap.Int("already_exists", s.AlreadyExists),
		zap.Int("failed", s.Failed))
	return reports
}

// EnsureFolder creates the folder at p unless some entry already exists there.
func (e *Engine) EnsureFolder(ctx context.Context, label, p string) Report {
	r := Report{Label: label, Path: p, Kind: KindFolder}

	exists, err := e.vault.Exists(ctx, p)
	if err != nil {
		logger.Warn(ctx, "folder check failed", zap.String("path", p), zap.Error(err))
		r.Outcome = Failed(err)
		return r
	}
	if exists {
		logger.Debug(ctx, "folder already exists", zap.String("path", p))
		r.Outcome = AlreadyExists()
		return r
	}

	if err := e.vault.CreateFolder(ctx, p); err != nil {
		logger.Warn(ctx, "folder creation failed", zap.String("path", p), zap.Error(err))
		r.Outcome = Failed(err)
		return r
	}
	logger.Debug(ctx, "folder created", zap.String("path", p))
	r.Outcome = Created()
	return r
}

// EnsureDocument creates the document at p unless some entry already exists
// there. body is only called when the document is actually created.
func (e *Engine) EnsureDocument(ctx context.Context, label, p string, body Body) Report {
	r := Report{Label: label, Path: p, Kind: KindDocument}

	exists, err := e.vault.Exists(ctx, p)
	if err != nil {
		logger.Warn(ctx, "document check failed", zap.String("path", p), zap.Error(err))
		r.Outcome = Failed(err)
		return r
	}
	if exists {
		logger.Debug(ctx, "document already exists", zap.String("path", p))
		r.Outcome = AlreadyExists()
		return r
	}

	content, source := body(ctx)
	r.Source = source

	if err := e.vault.CreateDocument(ctx, p, content); err != nil {
		logger.Warn(ctx, "document creation failed", zap.String("path", p), zap.Error(err))
		r.Outcome = Failed(err)
		return r
	}
	logger.Debug(ctx, "document created", zap.String("path", p), zap.String("source", source))
	r.Outcome = Created()
	return r
}

// Resolve returns the body for label: the template's text when a template
// is configured and is a readable document, the default body otherwise.
func (e *Engine) Resolve(ctx context.Context, label string, templates Templates) (content, source string) {
	src, ok := templates[label]
	if !ok || strings.TrimSpace(src.Path) == "" {
		logger.Debug(ctx, "no template configured", zap.String("label", label))
		return e.defaultBody(label), ""
	}

	isDoc, err := e.vault.IsDocument(ctx, src.Path)
	if err != nil {
		logger.Warn(ctx, "template check failed, using default body",
			zap.String("label", label), zap.String("template", src.Path), zap.Error(err))
		return e.defaultBody(label), ""
	}
	if !isDoc {
		logger.Debug(ctx, "template not present, using default body",
			zap.String("label", label), zap.String("template", src.Path))
		return e.defaultBody(label), ""
	}

	text, err := e.vault.ReadDocument(ctx, src.Path)
	if err != nil {
		logger.Warn(ctx, "template unreadable, using default body",
			zap.String("label", label), zap.String("template", src.Path), zap.Error(err))
		return e.defaultBody(label), ""
	}
	return text, src.Path
}

func (e *Engine) defaultBody(label string) string {
	if body, ok := e.defaults[label]; ok {
		return body
	}
	return DefaultBody(label)
}
