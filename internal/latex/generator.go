package latex

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmoreno/cv-studio/internal/types"
)

// Generate produces the full LaTeX document for a CV. The output is
// deterministic for a given input except for the optional last-updated
// footer, which reads the clock.
func Generate(cv *types.CvData, design *types.CvDesignConfig) string {
	return generateAt(cv, design, time.Now())
}

func generateAt(cv *types.CvData, design *types.CvDesignConfig, now time.Time) string {
	if design == nil {
		d := types.DefaultDesign()
		design = &d
	}

	var doc strings.Builder
	writePreamble(&doc, design)
	doc.WriteString("\\begin{document}\n\n")
	writeHeader(&doc, &cv.PersonalInfo, design)

	for _, section := range design.VisibleSections() {
		block := formatSection(section.ID, cv, design)
		if block == "" {
			continue
		}
		doc.WriteString(block)
		doc.WriteString("\n")
	}

	if design.ShowLastUpdated {
		writeFooter(&doc, design, now)
	}

	doc.WriteString("\\end{document}\n")
	return doc.String()
}

func writePreamble(doc *strings.Builder, design *types.CvDesignConfig) {
	fontSize := design.Typography.FontSize
	if fontSize == 0 {
		fontSize = 10
	}
	pageSize := design.Page.Size
	if pageSize == "" {
		pageSize = "a4paper"
	}

	fmt.Fprintf(doc, "\\documentclass[%dpt,%s]{article}\n", fontSize, pageSize)
	doc.WriteString("\\usepackage[utf8]{inputenc}\n")
	doc.WriteString("\\usepackage[T1]{fontenc}\n")
	doc.WriteString(fontPackage(design.Typography.FontFamily))
	if design.Locale == types.LocaleEnglish {
		doc.WriteString("\\usepackage[english]{babel}\n")
	} else {
		doc.WriteString("\\usepackage[spanish,es-noshorthands]{babel}\n")
	}
	fmt.Fprintf(doc, "\\usepackage[%s,top=%.1fcm,bottom=%.1fcm,left=%.1fcm,right=%.1fcm]{geometry}\n",
		pageSize, design.Page.MarginTop, design.Page.MarginBottom, design.Page.MarginLeft, design.Page.MarginRight)
	doc.WriteString("\\usepackage{xcolor}\n")
	doc.WriteString("\\usepackage{enumitem}\n")
	doc.WriteString("\\usepackage{titlesec}\n")
	doc.WriteString("\\usepackage{fontawesome5}\n")
	doc.WriteString("\\usepackage[hidelinks]{hyperref}\n")
	doc.WriteString(colorDefinitions(withDefaultRoles(design.Colors)))
	doc.WriteString("\\titleformat{\\section}{\\large\\bfseries\\color{cvprimary}}{}{0em}{}[\\titlerule]\n")
	doc.WriteString("\\titlespacing*{\\section}{0pt}{1.2ex}{0.8ex}\n")
	doc.WriteString("\\setlist[itemize]{leftmargin=*,nosep,topsep=2pt}\n")
	doc.WriteString("\\setlength{\\parindent}{0pt}\n")
	doc.WriteString("\\pagestyle{empty}\n\n")
}

func fontPackage(family string) string {
	switch family {
	case "helvet":
		return "\\usepackage{helvet}\n\\renewcommand{\\familydefault}{\\sfdefault}\n"
	case "palatino":
		return "\\usepackage{palatino}\n"
	default:
		return "\\usepackage{lmodern}\n"
	}
}

func writeHeader(doc *strings.Builder, info *types.PersonalInfo, design *types.CvDesignConfig) {
	doc.WriteString("\\begin{center}\n")
	fmt.Fprintf(doc, "{\\Huge\\bfseries\\color{cvprimary} %s}\\\\[0.3em]\n", Escape(info.Name))
	if info.Headline != "" {
		fmt.Fprintf(doc, "{\\large\\color{cvaccent} %s}\\\\[0.5em]\n", Escape(info.Headline))
	}

	contacts := make([]string, 0, 4)
	if info.Email != "" {
		contacts = append(contacts, fmt.Sprintf("\\faEnvelope\\ \\href{mailto:%s}{%s}", info.Email, Escape(info.Email)))
	}
	if info.Phone != "" {
		contacts = append(contacts, "\\faPhone\\ "+Escape(info.Phone))
	}
	if info.Location != "" {
		contacts = append(contacts, "\\faMapMarker\\ "+Escape(info.Location))
	}
	if info.Website != "" {
		contacts = append(contacts, fmt.Sprintf("\\faGlobe\\ \\href{%s}{%s}", info.Website, Escape(displayURL(info.Website))))
	}
	if info.LinkedIn != "" {
		contacts = append(contacts, fmt.Sprintf("\\faLinkedin\\ \\href{%s}{%s}", info.LinkedIn, Escape(displayURL(info.LinkedIn))))
	}
	if info.GitHub != "" {
		contacts = append(contacts, fmt.Sprintf("\\faGithub\\ \\href{%s}{%s}", info.GitHub, Escape(displayURL(info.GitHub))))
	}
	if len(contacts) > 0 {
		doc.WriteString("{\\small " + strings.Join(contacts, " \\quad ") + "}\n")
	}
	doc.WriteString("\\end{center}\n\n")
}

// displayURL strips the scheme for link text; the \href target keeps it.
func displayURL(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	return strings.TrimSuffix(url, "/")
}

func writeFooter(doc *strings.Builder, design *types.CvDesignConfig, now time.Time) {
	stamp := FormatDate(now.Format("2006-01-02"), design.DateFormat, design.Locale)
	label := "Última actualización"
	if design.Locale == types.LocaleEnglish {
		label = "Last updated"
	}
	fmt.Fprintf(doc, "\\vfill\n{\\centering\\small\\color{cvaccent} %s: %s\\par}\n", label, stamp)
}
