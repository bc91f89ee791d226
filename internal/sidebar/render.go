// Package sidebar renders the tag sidebar: the full fragment with priority
// and regular tag lists, and the single row stamped out for a new tag.
//
// Rendering is pure. Translation, number formatting and the color palette
// are supplied by the caller, and the same inputs always produce the same
// markup, so a Renderer is safe for concurrent use.
package sidebar

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/i18n"
	"github.com/lu-zhengda/tagside/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

// Translator localizes UI strings and tag names.
type Translator interface {
	T(key string) string
}

type paletteResolver interface {
	Resolve(name string) string
}

// ViewConfig is the per-render view state.
type ViewConfig struct {
	Density    domain.Density
	Collapsed  domain.TagSet
	Selected   domain.TagSet
	Organizing bool
	Palette    theme.Palette
}

// Options configures a Renderer. Zero values fall back to English
// passthrough, i18n.FriendlyNumber and an empty base path.
type Options struct {
	Translator   Translator
	FormatNumber func(int) string
	BasePath     string
}

// Renderer produces sidebar markup.
type Renderer struct {
	tmpl         *template.Template
	translator   Translator
	formatNumber func(int) string
	basePath     string
}

// New parses the embedded templates.
func New(opts Options) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse sidebar templates: %w", err)
	}
	r := &Renderer{
		tmpl:         tmpl,
		translator:   opts.Translator,
		formatNumber: opts.FormatNumber,
		basePath:     opts.BasePath,
	}
	if r.formatNumber == nil {
		r.formatNumber = i18n.FriendlyNumber
	}
	return r, nil
}

// BasePath is the HTTP prefix used for tag links.
func (r *Renderer) BasePath() string {
	return r.basePath
}

func (r *Renderer) translate(s string) string {
	if r.translator == nil {
		return s
	}
	return r.translator.T(s)
}

type sidebarData struct {
	Density       domain.Density
	Organizing    bool
	Priority      []Row
	Regular       []Row
	AddLabel      string
	OrganizeLabel string
	OrganizeNext  string
	OrganizeState string
}

// Render produces the complete sidebar fragment. Inputs are used in the
// order given; nothing is re-sorted.
func (r *Renderer) Render(priority, regular []domain.Tag, cfg ViewConfig) (template.HTML, error) {
	data := sidebarData{
		Density:    cfg.Density,
		Organizing: cfg.Organizing,
		Priority:   r.Rows(priority, cfg),
		Regular:    r.Rows(regular, cfg),
		AddLabel:   r.translate(i18n.MsgAddTag),
	}
	if data.Density == "" {
		data.Density = domain.DensityComfy
	}
	current, next := i18n.MsgOrganize, i18n.MsgDone
	data.OrganizeState = "off"
	if cfg.Organizing {
		current, next = next, current
		data.OrganizeState = "on"
	}
	data.OrganizeLabel = r.translate(current)
	data.OrganizeNext = r.translate(next)

	return r.execute("sidebar", data)
}

// RenderNewItem renders one row for a tag created interactively. The
// notification slot is left empty for a later state update to fill.
func (r *Renderer) RenderNewItem(tag domain.NewTag, palette theme.Palette) (template.HTML, error) {
	return r.execute("row", r.newItemRow(tag, palette))
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
