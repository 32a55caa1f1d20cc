package types

import "sort"

// DateFormat selects how dates are rendered in the generated document.
type DateFormat string

// Date format constants supported by the LaTeX generator.
const (
	DateFormatShort   DateFormat = "short"   // "ene 2022" / "Jan 2022"
	DateFormatLong    DateFormat = "long"    // "enero de 2022" / "January 2022"
	DateFormatNumeric DateFormat = "numeric" // "01/2022"
)

// Locale selects the output language for generated text.
type Locale string

// Supported output locales.
const (
	LocaleSpanish Locale = "es"
	LocaleEnglish Locale = "en"
)

// SectionConfig controls visibility and ordering of one CV section.
type SectionConfig struct {
	ID      string `json:"id"` // summary, experience, education, skills, projects, certifications, languages, publications
	Visible bool   `json:"visible"`
	Order   int    `json:"order"`
}

// PageConfig holds page geometry for the LaTeX preamble.
type PageConfig struct {
	Size         string  `json:"size"` // a4paper or letterpaper
	MarginTop    float64 `json:"margin_top_cm"`
	MarginBottom float64 `json:"margin_bottom_cm"`
	MarginLeft   float64 `json:"margin_left_cm"`
	MarginRight  float64 `json:"margin_right_cm"`
}

// Typography holds font settings for the LaTeX preamble.
type Typography struct {
	FontFamily string `json:"font_family,omitempty"` // lmodern, helvet, palatino
	FontSize   int    `json:"font_size,omitempty"`   // 10, 11, 12
}

// CvDesignConfig is the user-controlled theme/layout configuration that
// drives document generation.
type CvDesignConfig struct {
	Theme           string            `json:"theme"`
	Colors          map[string]string `json:"colors"` // role -> hex, e.g. "primary" -> "#1a5276"
	Typography      Typography        `json:"typography"`
	Page            PageConfig        `json:"page"`
	Sections        []SectionConfig   `json:"sections"`
	DateFormat      DateFormat        `json:"date_format,omitempty"`
	Locale          Locale            `json:"locale,omitempty"`
	ShowLastUpdated bool              `json:"show_last_updated,omitempty"`
}

// DefaultDesign returns the design used when the client sends none.
func DefaultDesign() CvDesignConfig {
	return CvDesignConfig{
		Theme: "classic",
		Colors: map[string]string{
			"primary": "#1a5276",
			"accent":  "#707b7c",
			"text":    "#212121",
		},
		Typography: Typography{FontFamily: "lmodern", FontSize: 10},
		Page:       PageConfig{Size: "a4paper", MarginTop: 1.5, MarginBottom: 1.5, MarginLeft: 1.8, MarginRight: 1.8},
		Sections: []SectionConfig{
			{ID: "summary", Visible: true, Order: 0},
			{ID: "experience", Visible: true, Order: 1},
			{ID: "education", Visible: true, Order: 2},
			{ID: "skills", Visible: true, Order: 3},
			{ID: "projects", Visible: true, Order: 4},
			{ID: "certifications", Visible: true, Order: 5},
			{ID: "languages", Visible: true, Order: 6},
			{ID: "publications", Visible: true, Order: 7},
		},
		DateFormat: DateFormatShort,
		Locale:     LocaleSpanish,
	}
}

// NormalizeSectionOrder rewrites Order values to 0..n-1 preserving the
// current relative order. Rendering order stays deterministic after any
// reorder, even if the client sent duplicate or sparse order values.
func (d *CvDesignConfig) NormalizeSectionOrder() {
	sort.SliceStable(d.Sections, func(i, j int) bool {
		return d.Sections[i].Order < d.Sections[j].Order
	})
	for i := range d.Sections {
		d.Sections[i].Order = i
	}
}

// VisibleSections returns the visible sections sorted by order.
func (d *CvDesignConfig) VisibleSections() []SectionConfig {
	d.NormalizeSectionOrder()
	out := make([]SectionConfig, 0, len(d.Sections))
	for _, s := range d.Sections {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}
