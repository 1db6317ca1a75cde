package drafting

import (
	"slices"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// Template types.
const (
	TemplateProgressNote     = "progress_note"
	TemplateDischargeSummary = "discharge_summary"
	TemplateReferralLetter   = "referral_letter"
)

var templates = []domain.Template{
	{
		Type:        TemplateProgressNote,
		DisplayName: "Progress Note",
		InputScope:  []string{"chief_complaint", "intake_capsule", "safety_upgrades", "clinician_observations"},
		Steps: []string{
			"Summarize presenting concerns",
			"Record assessment against retrieved guidelines",
			"Document plan and follow-up",
		},
		HumanConfirmationPoints: []string{"Assessment accuracy", "Plan appropriateness", "Citation verification"},
	},
	{
		Type:        TemplateDischargeSummary,
		DisplayName: "Discharge Summary",
		InputScope:  []string{"chief_complaint", "treatment_course", "medications", "follow_up"},
		Steps: []string{
			"Summarize course of care",
			"Reconcile medications",
			"State discharge instructions and follow-up",
		},
		HumanConfirmationPoints: []string{"Medication reconciliation", "Follow-up arrangements", "Citation verification"},
	},
	{
		Type:        TemplateReferralLetter,
		DisplayName: "Referral Letter",
		InputScope:  []string{"chief_complaint", "intake_capsule", "referral_reason", "receiving_service"},
		Steps: []string{
			"State reason for referral",
			"Summarize relevant history and risk",
			"List questions for the receiving service",
		},
		HumanConfirmationPoints: []string{"Referral urgency", "Consent scope covers shared data", "Citation verification"},
	},
}

// Templates returns the template catalogue.
func (s *Service) Templates() []domain.Template {
	return slices.Clone(templates)
}

func findTemplate(templateType string) (domain.Template, bool) {
	i := slices.IndexFunc(templates, func(t domain.Template) bool { return t.Type == templateType })
	if i < 0 {
		return domain.Template{}, false
	}
	return templates[i], true
}
