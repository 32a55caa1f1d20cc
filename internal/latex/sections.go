package latex

import (
	"fmt"
	"strings"

	"github.com/dmoreno/cv-studio/internal/types"
)

var sectionTitlesES = map[string]string{
	"summary":        "Resumen",
	"experience":     "Experiencia",
	"education":      "Educación",
	"skills":         "Habilidades",
	"projects":       "Proyectos",
	"certifications": "Certificaciones",
	"languages":      "Idiomas",
	"publications":   "Publicaciones",
}

var sectionTitlesEN = map[string]string{
	"summary":        "Summary",
	"experience":     "Experience",
	"education":      "Education",
	"skills":         "Skills",
	"projects":       "Projects",
	"certifications": "Certifications",
	"languages":      "Languages",
	"publications":   "Publications",
}

func sectionTitle(id string, locale types.Locale) string {
	titles := sectionTitlesES
	if locale == types.LocaleEnglish {
		titles = sectionTitlesEN
	}
	return titles[id]
}

// formatSection dispatches to the formatter for a section id. Unknown ids
// and sections with no data render as the empty string and are omitted.
func formatSection(id string, cv *types.CvData, design *types.CvDesignConfig) string {
	switch id {
	case "summary":
		return formatSummary(cv.Summary, design)
	case "experience":
		return formatExperience(cv.Experience, design)
	case "education":
		return formatEducation(cv.Education, design)
	case "skills":
		return formatSkills(cv.Skills, design)
	case "projects":
		return formatProjects(cv.Projects, design)
	case "certifications":
		return formatCertifications(cv.Certifications, design)
	case "languages":
		return formatLanguages(cv.Languages, design)
	case "publications":
		return formatPublications(cv.Publications, design)
	default:
		return ""
	}
}

func formatSummary(summary string, design *types.CvDesignConfig) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\section{%s}\n", sectionTitle("summary", design.Locale))
	b.WriteString(Escape(summary) + "\n")
	return b.String()
}

func formatExperience(entries []types.Experience, design *types.CvDesignConfig) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\section{%s}\n", sectionTitle("experience", design.Locale))
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\\vspace{0.6em}\n")
		}
		dates := FormatDateRange(e.StartDate, e.EndDate, e.Current, design.DateFormat, design.Locale)
		fmt.Fprintf(&b, "\\textbf{%s} \\hfill {\\small %s}\\\\\n", Escape(e.Position), dates)
		company := Escape(e.Company)
		if e.Location != "" {
			fmt.Fprintf(&b, "\\textit{%s} \\hfill {\\small %s}\\\\\n", company, Escape(e.Location))
		} else {
			fmt.Fprintf(&b, "\\textit{%s}\\\\\n", company)
		}
		if e.Description != "" {
			b.WriteString(Escape(e.Description) + "\n")
		}
		if len(e.Achievements) > 0 {
			b.WriteString("\\begin{itemize}\n")
			for _, a := range e.Achievements {
				b.WriteString("  \\item " + Escape(a) + "\n")
			}
			b.WriteString("\\end{itemize}\n")
		}
		if len(e.Technologies) > 0 {
			fmt.Fprintf(&b, "{\\small\\color{cvaccent} %s}\\\\\n", escapeJoin(e.Technologies, ", "))
		}
	}
	return b.String()
}

func formatEducation(entries []types.Education, design *types.CvDesignConfig) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\section{%s}\n", sectionTitle("education", design.Locale))
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\\vspace{0.6em}\n")
		}
		degree := Escape(e.Degree)
		if e.Field != "" {
			degree += ", " + Escape(e.Field)
		}
		dates := FormatDateRange(e.StartDate, e.EndDate, false, design.DateFormat, design.Locale)
		fmt.Fprintf(&b, "\\textbf{%s} \\hfill {\\small %s}\\\\\n", degree, dates)
		institution := Escape(e.Institution)
		if e.Location != "" {
			fmt.Fprintf(&b, "\\textit{%s} \\hfill {\\small %s}\\\\\n", institution, Escape(e.Location))
		} else {
			fmt.Fprintf(&b, "\\textit{%s}\\\\\n", institution)
		}
		if e.Grade != "" {
			b.WriteString(Escape(e.Grade) + "\\\\\n")
		}
	}
	return b.String()
}

func formatSkills(groups []types.SkillGroup, design *types.CvDesignConfig) string {
	if len(groups) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\section{%s}\n", sectionTitle("skills", design.Locale))
	for _, g := range groups {
		fmt.Fprintf(&b, "\\textbf{%s:} %s\\\\\n", Escape(g.Category), escapeJoin(g.Skills, ", "))
	}
	return b.String()
}

func formatProjects(entries []types.Project, design *types.CvDesignConfig) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\section{%s}\n", sectionTitle("projects", design.Locale))
	for i, p := range entries {
		if i > 0 {
			b.WriteString("\\vspace{0.6em}\n")
		}
		name := Escape(p.Name)
		if p.URL != "" {
			fmt.Fprintf(&b, "\\textbf{%s} \\hfill {\\small \\href{%s}{%s}}\\\\\n", name, p.URL, Escape(displayURL(p.URL)))
		} else {
			fmt.Fprintf(&b, "\\textbf{%s}\\\\\n", name)
		}
		if p.Description != "" {
			b.WriteString(Escape(p.Description) + "\n")
		}
		if len(p.Highlights) > 0 {
			b.WriteString("\\begin{itemize}\n")
			for _, h := range p.Highlights {
				b.WriteString("  \\item " + Escape(h) + "\n")
			}
			b.WriteString("\\end{itemize}\n")
		}
		if len(p.Technologies) > 0 {
			fmt.Fprintf(&b, "{\\small\\color{cvaccent} %s}\\\\\n", escapeJoin(p.Technologies, ", "))
		}
	}
	return b.String()
}

func formatCertifications(entries []types.Certification, design *types.CvDesignConfig) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\section{%s}\n", sectionTitle("certifications", design.Locale))
	for _, c := range entries {
		line := "\\textbf{" + Escape(c.Name) + "}"
		if c.Issuer != "" {
			line += ", " + Escape(c.Issuer)
		}
		if date := FormatDate(c.Date, design.DateFormat, design.Locale); date != "" {
			line += " \\hfill {\\small " + date + "}"
		}
		b.WriteString(line + "\\\\\n")
	}
	return b.String()
}

func formatLanguages(entries []types.Language, design *types.CvDesignConfig) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\section{%s}\n", sectionTitle("languages", design.Locale))
	parts := make([]string, 0, len(entries))
	for _, l := range entries {
		part := "\\textbf{" + Escape(l.Name) + "}"
		if l.Level != "" {
			part += " (" + Escape(l.Level) + ")"
		}
		parts = append(parts, part)
	}
	b.WriteString(strings.Join(parts, " \\quad ") + "\n")
	return b.String()
}

func formatPublications(entries []types.Publication, design *types.CvDesignConfig) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\section{%s}\n", sectionTitle("publications", design.Locale))
	for _, p := range entries {
		line := "\\textit{" + Escape(p.Title) + "}"
		if p.Publisher != "" {
			line += ", " + Escape(p.Publisher)
		}
		if date := FormatDate(p.Date, design.DateFormat, design.Locale); date != "" {
			line += " \\hfill {\\small " + date + "}"
		}
		if p.URL != "" {
			line += " \\href{" + p.URL + "}{" + Escape(displayURL(p.URL)) + "}"
		}
		b.WriteString(line + "\\\\\n")
	}
	return b.String()
}
