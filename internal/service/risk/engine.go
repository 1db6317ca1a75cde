// Package risk is the rule-based safety classifier. It never consults a
// generative model and is the only source of safety escalations.
package risk

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// Severity self-report thresholds (1..10 scale).
const (
	SeverityCritical = 8
	SeverityHigh     = 7
	SeverityMedium   = 5
)

const maxExplainedTriggers = 3

var recommendedActions = map[domain.RiskLevel]string{
	domain.RiskCritical: "IMMEDIATE SAFETY CONCERN: Please reach out to crisis support now. " +
		"• National Crisis Line: 988 (US) | • Crisis Text: Text HOME to 741741 | " +
		"• Emergency: 911 | • 中国24小时心理援助热线: 010-82951332",
	domain.RiskHigh: "URGENT SUPPORT RECOMMENDED: Please consider speaking with a professional soon. " +
		"• National Helpline: 988 | • SAMHSA: 1-800-662-4357 | " +
		"Clinician review recommended within 24 hours.",
	domain.RiskMedium: "SUPPORT AVAILABLE: Consider connecting with a mental health professional. " +
		"Routine follow-up recommended within 1 week. You are not alone.",
	domain.RiskLow: "CONTINUE SUPPORT: No immediate safety concerns detected. " +
		"Resources are always available if needed.",
}

// Engine classifies free text plus an optional severity self-report.
// It holds only immutable compiled rules and is safe for concurrent use.
type Engine struct {
	critical []rule
	high     []rule
	medium   []rule
}

// NewEngine returns an engine over the built-in rule tiers.
func NewEngine() *Engine {
	return &Engine{critical: criticalRules, high: highRules, medium: mediumRules}
}

// Assess returns the risk level and every trigger that fired, in evaluation order.
// The result depends only on the arguments.
func (e *Engine) Assess(text string, severity *int) domain.RiskAssessment {
	var triggers []string
	textLevel := domain.RiskLow

	criticalHits := matches(e.critical, text)
	for _, d := range criticalHits {
		triggers = append(triggers, "CRITICAL: "+d)
	}
	if len(criticalHits) > 0 {
		textLevel = domain.RiskCritical
	}

	if textLevel != domain.RiskCritical {
		highHits := matches(e.high, text)
		for _, d := range highHits {
			triggers = append(triggers, "HIGH: "+d)
		}
		switch {
		case len(highHits) >= 2:
			textLevel = domain.RiskCritical
			triggers = append(triggers, fmt.Sprintf("CRITICAL: Multiple high-risk indicators (%d)", len(highHits)))
		case len(highHits) == 1:
			textLevel = domain.RiskHigh
		}
	}

	if textLevel == domain.RiskLow {
		mediumHits := matches(e.medium, text)
		for _, d := range mediumHits {
			triggers = append(triggers, "MEDIUM: "+d)
		}
		if len(mediumHits) >= 2 {
			textLevel = domain.RiskMedium
		}
	}

	severityLevel := domain.RiskLow
	if severity != nil {
		s := *severity
		switch {
		case s >= SeverityCritical:
			severityLevel = domain.RiskCritical
			triggers = append(triggers, fmt.Sprintf("CRITICAL: Severity score %d/10 (threshold: %d+)", s, SeverityCritical))
		case s >= SeverityHigh:
			severityLevel = domain.RiskHigh
			triggers = append(triggers, fmt.Sprintf("HIGH: Severity score %d/10 (threshold: %d+)", s, SeverityHigh))
		case s >= SeverityMedium:
			severityLevel = domain.RiskMedium
			triggers = append(triggers, fmt.Sprintf("MEDIUM: Severity score %d/10 (threshold: %d+)", s, SeverityMedium))
		}
	}

	level := domain.MaxRisk(textLevel, severityLevel)
	if triggers == nil {
		triggers = []string{}
	}

	var sev *int
	if severity != nil {
		v := *severity
		sev = &v
	}

	return domain.RiskAssessment{
		Level:             level,
		Triggers:          triggers,
		Explanation:       explain(triggers),
		RecommendedAction: recommendedActions[level],
		SeverityScore:     sev,
	}
}

func matches(rules []rule, text string) []string {
	var hits []string
	for _, r := range rules {
		if r.re.MatchString(text) {
			hits = append(hits, r.description)
		}
	}
	return hits
}

func explain(triggers []string) string {
	if len(triggers) == 0 {
		return "No significant risk indicators detected. Continuing supportive dialogue. Resources available anytime."
	}
	shown := triggers
	if len(shown) > maxExplainedTriggers {
		shown = shown[:maxExplainedTriggers]
	}
	summary := strings.Join(shown, "; ")
	if extra := len(triggers) - len(shown); extra > 0 {
		summary += fmt.Sprintf(" (+%d more)", extra)
	}
	return fmt.Sprintf("Automated safety screening detected %d trigger(s): %s. "+
		"This is NOT a diagnosis. Rule-based screening for safety support only.", len(triggers), summary)
}
