// Package profile interprets upload results: the applicant profile summary
// shown in the profile bar, and the assistant messages composed for each
// extraction outcome.
package profile

import (
	"fmt"
	"strings"

	"github.com/carmscli/carmscli/internal/agent"
)

// Profile is the applicant profile extracted from an uploaded document. It
// mirrors what the server returns; only the last successful extraction is
// ever displayed.
type Profile struct {
	Filename           string
	Disciplines        []string
	Locations          []string
	TrainingInterests  []string
	ResearchExperience string
	ClinicalExperience string
	Education          string
	Languages          []string
	CareerGoals        string
	Strengths          []string
	Summary            string
}

// FromUpload builds a Profile from an upload result that has content.
func FromUpload(r *agent.UploadResult) *Profile {
	return &Profile{
		Filename:           r.Filename,
		Disciplines:        r.DisciplinesOfInterest,
		Locations:          r.GeographicPreferences,
		TrainingInterests:  r.TrainingInterests,
		ResearchExperience: r.ResearchExperience,
		ClinicalExperience: r.ClinicalExperience,
		Education:          r.Education,
		Languages:          r.Languages,
		CareerGoals:        r.CareerGoals,
		Strengths:          r.Strengths,
		Summary:            r.Summary,
	}
}

// BarText is the single-line profile bar content: the filename followed by a
// pipe-delimited summary of disciplines, locations, and free text.
func (p *Profile) BarText() string {
	var parts []string
	if len(p.Disciplines) > 0 {
		parts = append(parts, strings.Join(p.Disciplines, ", "))
	}
	if len(p.Locations) > 0 {
		parts = append(parts, strings.Join(p.Locations, ", "))
	}
	if p.Summary != "" {
		parts = append(parts, p.Summary)
	}
	if len(parts) == 0 {
		return p.Filename
	}
	return p.Filename + " — " + strings.Join(parts, " | ")
}

const preferencesHint = `Please upload a relevant document, or describe your preferences directly, e.g. "I'm interested in family medicine programs in Ontario".`

// NoContentMessage composes the assistant message for an upload that yielded
// no profile. Three variants: clearly irrelevant document, recognized
// document with nothing extractable, and unclassifiable document.
func NoContentMessage(r *agent.UploadResult) string {
	switch {
	case r.IsRelevant != nil && !*r.IsRelevant && r.DocumentType != "":
		return fmt.Sprintf(
			"**%s** appears to be a **%s**, which isn't a medical career document (CV, personal statement, cover letter, etc.).\n\n%s",
			r.Filename, r.DocumentType, preferencesHint)
	case r.DocumentType != "":
		return fmt.Sprintf(
			"I analysed **%s** (detected as **%s**) but couldn't extract medical career profile details from it.\n\n%s",
			r.Filename, r.DocumentType, preferencesHint)
	default:
		return fmt.Sprintf(
			"I uploaded **%s** but couldn't extract profile details from it. The document may be scanned, image-based, or in an unsupported format.\n\n"+
				`You can still ask me to find programs by describing your preferences directly, e.g. "I'm interested in family medicine programs in Ontario".`,
			r.Filename)
	}
}

// WelcomeMessage composes the assistant message for a successful extraction,
// listing the extracted fields and ending with a follow-up suggestion.
func WelcomeMessage(r *agent.UploadResult) string {
	parts := []string{fmt.Sprintf("Profile extracted from **%s**.", r.Filename)}
	if len(r.DisciplinesOfInterest) > 0 {
		parts = append(parts, "**Disciplines:** "+strings.Join(r.DisciplinesOfInterest, ", "))
	}
	if len(r.GeographicPreferences) > 0 {
		parts = append(parts, "**Location preferences:** "+strings.Join(r.GeographicPreferences, ", "))
	}
	if r.Summary != "" {
		parts = append(parts, r.Summary)
	}
	parts = append(parts, `Send a message like "Find matching programs" and I'll use your profile to recommend programs.`)
	return strings.Join(parts, "\n\n")
}

// Details is a multi-line rendering of every extracted field, used by the
// upload command's verbose output.
func (p *Profile) Details() string {
	var b strings.Builder
	write := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	write("Disciplines", strings.Join(p.Disciplines, ", "))
	write("Locations", strings.Join(p.Locations, ", "))
	write("Training interests", strings.Join(p.TrainingInterests, ", "))
	write("Research experience", p.ResearchExperience)
	write("Clinical experience", p.ClinicalExperience)
	write("Education", p.Education)
	write("Languages", strings.Join(p.Languages, ", "))
	write("Career goals", p.CareerGoals)
	write("Strengths", strings.Join(p.Strengths, ", "))
	write("Summary", p.Summary)
	return strings.TrimRight(b.String(), "\n")
}
