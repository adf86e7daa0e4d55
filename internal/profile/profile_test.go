package profile

import (
	"strings"
	"testing"

	"github.com/carmscli/carmscli/internal/agent"
)

func boolPtr(b bool) *bool { return &b }

func TestNoContentMessageVariants(t *testing.T) {
	tests := []struct {
		name   string
		result agent.UploadResult
		want   string
	}{
		{
			name: "irrelevant document",
			result: agent.UploadResult{
				Filename:     "recipe.pdf",
				IsRelevant:   boolPtr(false),
				DocumentType: "resume (non-medical)",
			},
			want: "appears to be a **resume (non-medical)**",
		},
		{
			name: "recognized but empty",
			result: agent.UploadResult{
				Filename:     "cv.pdf",
				DocumentType: "CV",
			},
			want: "detected as **CV**",
		},
		{
			name: "unclassified",
			result: agent.UploadResult{
				Filename: "scan.pdf",
			},
			want: "may be scanned, image-based, or in an unsupported format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NoContentMessage(&tt.result)
			if !strings.Contains(got, tt.want) {
				t.Errorf("message = %q, want substring %q", got, tt.want)
			}
			if !strings.Contains(got, tt.result.Filename) {
				t.Errorf("message does not mention filename: %q", got)
			}
		})
	}
}

func TestNoContentIrrelevantNeedsDocumentType(t *testing.T) {
	// is_relevant=false without a document type falls through to the
	// unclassified variant.
	r := agent.UploadResult{Filename: "x.pdf", IsRelevant: boolPtr(false)}
	got := NoContentMessage(&r)
	if !strings.Contains(got, "couldn't extract profile details") {
		t.Errorf("message = %q", got)
	}
}

func TestWelcomeMessage(t *testing.T) {
	r := agent.UploadResult{
		Filename:              "cv.pdf",
		HasContent:            true,
		DisciplinesOfInterest: []string{"Family Medicine", "Pediatrics"},
		GeographicPreferences: []string{"Ontario"},
		Summary:               "Strong rural medicine focus.",
	}
	got := WelcomeMessage(&r)
	for _, want := range []string{
		"Profile extracted from **cv.pdf**.",
		"**Disciplines:** Family Medicine, Pediatrics",
		"**Location preferences:** Ontario",
		"Strong rural medicine focus.",
		"Find matching programs",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("message missing %q:\n%s", want, got)
		}
	}
}

func TestWelcomeMessageOmitsEmptySections(t *testing.T) {
	r := agent.UploadResult{Filename: "cv.pdf", HasContent: true}
	got := WelcomeMessage(&r)
	if strings.Contains(got, "Disciplines") || strings.Contains(got, "Location preferences") {
		t.Errorf("empty sections rendered: %q", got)
	}
}

func TestBarText(t *testing.T) {
	p := Profile{
		Filename:    "cv.pdf",
		Disciplines: []string{"Family Medicine"},
		Locations:   []string{"Ontario", "Quebec"},
		Summary:     "Bilingual applicant.",
	}
	want := "cv.pdf — Family Medicine | Ontario, Quebec | Bilingual applicant."
	if got := p.BarText(); got != want {
		t.Errorf("BarText = %q, want %q", got, want)
	}

	bare := Profile{Filename: "cv.pdf"}
	if got := bare.BarText(); got != "cv.pdf" {
		t.Errorf("BarText = %q, want filename only", got)
	}
}

func TestDetails(t *testing.T) {
	p := FromUpload(&agent.UploadResult{
		Filename:              "cv.pdf",
		DisciplinesOfInterest: []string{"Family Medicine"},
		Education:             "MD, University of Toronto",
		Languages:             []string{"English", "French"},
	})
	got := p.Details()
	for _, want := range []string{
		"Disciplines: Family Medicine",
		"Education: MD, University of Toronto",
		"Languages: English, French",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Details missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Career goals") {
		t.Errorf("empty field rendered:\n%s", got)
	}
}
