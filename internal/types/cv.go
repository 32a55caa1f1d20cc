// Package types provides type definitions for structured data used throughout the cv-studio system.
package types

// CvData is the aggregate root for a CV being edited. It lives in client
// memory between requests; the server only ever receives it whole (export)
// or appends to it through applied chat actions.
type CvData struct {
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Skills         []SkillGroup    `json:"skills"`
	Certifications []Certification `json:"certifications,omitempty"`
	Languages      []Language      `json:"languages,omitempty"`
	Publications   []Publication   `json:"publications,omitempty"`
	Summary        string          `json:"summary,omitempty"`
}

// PersonalInfo holds the header block of the CV.
type PersonalInfo struct {
	Name     string `json:"name"`
	Headline string `json:"headline,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Experience is one work-history entry. ID is a stable string used for
// reconciliation and for chat-driven append/update/remove.
type Experience struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"` // YYYY-MM or YYYY-MM-DD
	EndDate      string   `json:"end_date,omitempty"`   // empty while current
	Current      bool     `json:"current,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Education is one education entry.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Grade       string `json:"grade,omitempty"`
}

// Project is one project entry.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// SkillGroup groups skills under a category heading.
type SkillGroup struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// Certification is one certification entry.
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Language is one spoken-language entry.
type Language struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// Publication is one publication entry.
type Publication struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher,omitempty"`
	Date      string `json:"date,omitempty"`
	URL       string `json:"url,omitempty"`
}
