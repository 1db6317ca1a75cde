// Package citation enforces the mandatory citation rule at sign-off.
package citation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// markerPattern matches inline citation markers such as [DOC:DOC001].
var markerPattern = regexp.MustCompile(`\[DOC:(\w+)\]`)

// Marker returns the inline citation marker for a document id.
func Marker(docID string) string { return "[DOC:" + docID + "]" }

// Extract returns the number of markers in content and the distinct cited ids
// in order of first appearance.
func Extract(content string) (int, []string) {
	found := markerPattern.FindAllStringSubmatch(content, -1)
	ids := make([]string, 0, len(found))
	for _, m := range found {
		if !slices.Contains(ids, m[1]) {
			ids = append(ids, m[1])
		}
	}
	return len(found), ids
}

// Validate checks content against the evidence it was generated from.
// Sign-off requires non-empty evidence and at least one cited id that is
// present in that evidence. Cited ids outside the evidence are reported but
// do not block when another cited id matches.
func Validate(content string, evidence []domain.EvidenceRef) domain.PolicyResult {
	count, cited := Extract(content)
	evidenceIDs := domain.EvidenceIDs(evidence)

	matched := []string{}
	unknown := []string{}
	for _, id := range cited {
		if slices.Contains(evidenceIDs, id) {
			matched = append(matched, id)
		} else {
			unknown = append(unknown, id)
		}
	}

	res := domain.PolicyResult{
		CitationCount:  count,
		CitedDocIDs:    cited,
		MatchedDocIDs:  matched,
		UnknownDocIDs:  unknown,
		EvidenceDocIDs: evidenceIDs,
		Valid:          count > 0,
	}

	switch {
	case len(evidence) == 0:
		res.Violation = domain.ViolationNoEvidence
		res.Reason = "draft has no retrieved evidence to cite"
		res.Remediation = "regenerate the draft to retrieve evidence"
	case count == 0:
		res.Violation = domain.ViolationMissingCitations
		res.Reason = fmt.Sprintf("draft has evidence but zero citation markers (missing citation marks); found evidence: %s",
			strings.Join(evidenceIDs, ", "))
		res.Remediation = remediation(evidenceIDs)
	case len(matched) == 0:
		res.Violation = domain.ViolationUnmatchedCitation
		res.Reason = "draft cites documents not present in retrieved evidence: " + strings.Join(unknown, ", ")
		res.Remediation = remediation(evidenceIDs)
	default:
		res.Allowed = true
		res.Reason = fmt.Sprintf("draft cites %d of %d retrieved documents", len(matched), len(evidenceIDs))
	}
	return res
}

func remediation(ids []string) string {
	return "add a citation to one of: " + strings.Join(ids, ", ")
}
