package chat

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/dmoreno/cv-studio/internal/types"
)

// Draft merging is a shallow overwrite-if-present: a field is copied only
// when the incoming payload carries the key. Absent keys and explicit nulls
// are indistinguishable after decoding into pointer fields, and both mean
// "no information". A model that wants to clear a field must send an empty
// string.

// Draft holds the in-progress entity for the session's active section.
// Exactly one of the pointers is non-nil while drafting.
type Draft struct {
	Experience    *types.DraftExperience `json:"experience,omitempty"`
	Education     *types.DraftEducation  `json:"education,omitempty"`
	Project       *types.DraftProject    `json:"project,omitempty"`
	SkillGroup    *types.DraftSkillGroup `json:"skill_group,omitempty"`
	Certification *types.Certification   `json:"certification,omitempty"`
}

// MergeUpdate folds an update_draft payload into the draft for the given
// section, creating the section draft on first use.
func (d *Draft) MergeUpdate(section string, data json.RawMessage) error {
	switch section {
	case "experience":
		var incoming types.DraftExperience
		if err := json.Unmarshal(data, &incoming); err != nil {
			return err
		}
		if d.Experience == nil {
			d.Experience = &types.DraftExperience{}
		}
		mergeExperience(d.Experience, incoming)
	case "education":
		var incoming types.DraftEducation
		if err := json.Unmarshal(data, &incoming); err != nil {
			return err
		}
		if d.Education == nil {
			d.Education = &types.DraftEducation{}
		}
		mergeEducation(d.Education, incoming)
	case "projects":
		var incoming types.DraftProject
		if err := json.Unmarshal(data, &incoming); err != nil {
			return err
		}
		if d.Project == nil {
			d.Project = &types.DraftProject{}
		}
		mergeProject(d.Project, incoming)
	case "skills":
		var incoming types.DraftSkillGroup
		if err := json.Unmarshal(data, &incoming); err != nil {
			return err
		}
		if d.SkillGroup == nil {
			d.SkillGroup = &types.DraftSkillGroup{}
		}
		mergeSkillGroup(d.SkillGroup, incoming)
	}
	return nil
}

func mergeExperience(dst *types.DraftExperience, src types.DraftExperience) {
	if src.Company != nil {
		dst.Company = src.Company
	}
	if src.Position != nil {
		dst.Position = src.Position
	}
	if src.Location != nil {
		dst.Location = src.Location
	}
	if src.StartDate != nil {
		dst.StartDate = src.StartDate
	}
	if src.EndDate != nil {
		dst.EndDate = src.EndDate
	}
	if src.Current != nil {
		dst.Current = src.Current
	}
	if src.Description != nil {
		dst.Description = src.Description
	}
	if src.Achievements != nil {
		dst.Achievements = src.Achievements
	}
	if src.Technologies != nil {
		dst.Technologies = src.Technologies
	}
}

func mergeEducation(dst *types.DraftEducation, src types.DraftEducation) {
	if src.Institution != nil {
		dst.Institution = src.Institution
	}
	if src.Degree != nil {
		dst.Degree = src.Degree
	}
	if src.Field != nil {
		dst.Field = src.Field
	}
	if src.Location != nil {
		dst.Location = src.Location
	}
	if src.StartDate != nil {
		dst.StartDate = src.StartDate
	}
	if src.EndDate != nil {
		dst.EndDate = src.EndDate
	}
	if src.Grade != nil {
		dst.Grade = src.Grade
	}
}

func mergeProject(dst *types.DraftProject, src types.DraftProject) {
	if src.Name != nil {
		dst.Name = src.Name
	}
	if src.Description != nil {
		dst.Description = src.Description
	}
	if src.URL != nil {
		dst.URL = src.URL
	}
	if src.Technologies != nil {
		dst.Technologies = src.Technologies
	}
	if src.Highlights != nil {
		dst.Highlights = src.Highlights
	}
}

func mergeSkillGroup(dst *types.DraftSkillGroup, src types.DraftSkillGroup) {
	if src.Category != nil {
		dst.Category = src.Category
	}
	if src.Skills != nil {
		dst.Skills = src.Skills
	}
}

// Entity construction defaults absent fields to their zero value (empty
// string or empty slice) so the editor never receives null lists.

// FinalizeExperience builds the typed entity from an add_experience payload.
func FinalizeExperience(data json.RawMessage) (types.Experience, error) {
	var d types.DraftExperience
	if err := json.Unmarshal(data, &d); err != nil {
		return types.Experience{}, err
	}
	e := types.Experience{
		ID:           uuid.NewString(),
		Company:      deref(d.Company),
		Position:     deref(d.Position),
		Location:     deref(d.Location),
		StartDate:    deref(d.StartDate),
		EndDate:      deref(d.EndDate),
		Description:  deref(d.Description),
		Achievements: derefSlice(d.Achievements),
		Technologies: derefSlice(d.Technologies),
	}
	if d.Current != nil {
		e.Current = *d.Current
	}
	return e, nil
}

// FinalizeEducation builds the typed entity from an add_education payload.
func FinalizeEducation(data json.RawMessage) (types.Education, error) {
	var d types.DraftEducation
	if err := json.Unmarshal(data, &d); err != nil {
		return types.Education{}, err
	}
	return types.Education{
		ID:          uuid.NewString(),
		Institution: deref(d.Institution),
		Degree:      deref(d.Degree),
		Field:       deref(d.Field),
		Location:    deref(d.Location),
		StartDate:   deref(d.StartDate),
		EndDate:     deref(d.EndDate),
		Grade:       deref(d.Grade),
	}, nil
}

// FinalizeProject builds the typed entity from an add_project payload.
func FinalizeProject(data json.RawMessage) (types.Project, error) {
	var d types.DraftProject
	if err := json.Unmarshal(data, &d); err != nil {
		return types.Project{}, err
	}
	return types.Project{
		ID:           uuid.NewString(),
		Name:         deref(d.Name),
		Description:  deref(d.Description),
		URL:          deref(d.URL),
		Technologies: derefSlice(d.Technologies),
		Highlights:   derefSlice(d.Highlights),
	}, nil
}

// FinalizeSkillGroup builds the typed entity from an add_skill_group payload.
func FinalizeSkillGroup(data json.RawMessage) (types.SkillGroup, error) {
	var d types.DraftSkillGroup
	if err := json.Unmarshal(data, &d); err != nil {
		return types.SkillGroup{}, err
	}
	return types.SkillGroup{
		ID:       uuid.NewString(),
		Category: deref(d.Category),
		Skills:   derefSlice(d.Skills),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefSlice(s *[]string) []string {
	if s == nil {
		return []string{}
	}
	return *s
}
