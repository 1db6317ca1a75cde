package drafting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/citation"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"github.com/heartmarshall/dualtrack-backend/internal/service/retrieval"
)

const (
	draftSystemPrompt = "Generate clinical documentation with citations. Cite every clinical recommendation " +
		"with the marker of the supporting document, for example [DOC:doc_id]. Do not cite documents that are not listed."
	defaultComplaint = "patient assessment"
)

// Generate retrieves evidence and produces a new draft for a case. The
// retrieval is ledgered on its own so the search stays on record even when
// generation fails.
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*domain.Draft, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	tmpl, ok := findTemplate(input.TemplateType)
	if !ok {
		return nil, fmt.Errorf("template %s: %w", input.TemplateType, domain.ErrNotFound)
	}

	c, err := s.cases.GetByID(ctx, input.CaseID)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}

	var fields domain.CapsuleFields
	capsule, err := s.capsules.GetByCase(ctx, c.ID)
	switch {
	case err == nil:
		fields = capsule.Fields()
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get capsule: %w", err)
	}

	complaint := chiefComplaint(input.Context, fields)
	query := fmt.Sprintf("%s for %s", tmpl.Type, complaint)
	topK := input.TopK
	if topK == 0 {
		topK = s.retrieval.DefaultTopK()
	}
	category := input.Category
	if category == "" {
		category = tmpl.RetrievalCategory
	}

	embedModel := s.retrieval.EmbedModel()
	started := time.Now()
	evidence, err := s.retrieval.Query(ctx, retrieval.Query{Text: query, K: topK, Category: category, Fault: input.Fault})
	if err != nil {
		if errors.Is(err, domain.ErrRetrievalUnavailable) {
			if lerr := s.recordFailure(ctx, c.ID, embedModel, domain.OpEmbed, started, err); lerr != nil {
				return nil, lerr
			}
		}
		return nil, fmt.Errorf("retrieve evidence: %w", err)
	}

	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		_, err := s.ledger.Append(txCtx, domain.AuditEvent{
			Track:  domain.TrackClinician,
			Type:   domain.EventRetrieval,
			Actor:  domain.ModelActor(embedModel),
			CaseID: &c.ID,
			Payload: domain.RetrievalPayload{
				Query:    query,
				TopK:     topK,
				Category: category,
				Evidence: evidenceScores(evidence),
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	started = time.Now()
	gen, err := s.chat.Generate(ctx, domain.GenerationRequest{
		Model: s.cfg.ReviewerModel,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: draftSystemPrompt},
			{Role: domain.RoleUser, Content: userPrompt(tmpl, input.Context, evidence)},
		},
		Track:  domain.TrackClinician,
		CaseID: &c.ID,
		Fault:  input.Fault,
	})
	if err != nil {
		if lerr := s.recordFailure(ctx, c.ID, s.cfg.ReviewerModel, domain.OpChat, started, err); lerr != nil {
			return nil, lerr
		}
		if !errors.Is(err, domain.ErrInferenceUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrInferenceUnavailable, err)
		}
		return nil, fmt.Errorf("generate draft: %w", err)
	}

	model := gen.Model
	if model == "" {
		model = s.cfg.ReviewerModel
	}

	draft := domain.Draft{
		ID:           domain.NewDraftID(),
		CaseID:       c.ID,
		TemplateType: tmpl.Type,
		Status:       domain.DraftNew,
		Content:      gen.Text,
		Evidence:     evidence,
		Edits:        []domain.DraftEdit{},
		PendingTasks: pendingTasks(evidence),
		RiskPoints:   riskPoints(tmpl, fields),
		Model:        model,
	}

	var stored *domain.Draft
	err = s.runGoverned(ctx, func(txCtx context.Context) error {
		var err error
		stored, err = s.drafts.Create(txCtx, draft)
		if err != nil {
			return fmt.Errorf("create draft: %w", err)
		}
		_, err = s.ledger.Append(txCtx, domain.AuditEvent{
			Track:   domain.TrackClinician,
			Type:    domain.EventGeneration,
			Actor:   domain.ModelActor(model),
			CaseID:  &c.ID,
			DraftID: &stored.ID,
			Payload: domain.GenerationPayload{
				Artifact:      "draft",
				ArtifactID:    stored.ID,
				TemplateType:  stored.TemplateType,
				EvidenceCount: len(stored.Evidence),
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "draft generated",
		slog.String("case_id", c.ID.String()),
		slog.String("draft_id", stored.ID),
		slog.String("template_type", stored.TemplateType),
		slog.Int("evidence", len(stored.Evidence)),
	)
	return stored, nil
}

func (s *Service) recordFailure(ctx context.Context, caseID uuid.UUID, model, op string, started time.Time, cause error) error {
	err := s.ledger.RecordInferenceFailure(ctx, ledger.InferenceFailure{
		Model:     model,
		Track:     domain.TrackClinician,
		CaseID:    &caseID,
		Operation: op,
		Err:       cause,
		Latency:   time.Since(started),
	})
	if err != nil {
		s.log.ErrorContext(ctx, "ledger inference failure", slog.String("error", err.Error()))
		return fmt.Errorf("ledger inference failure: %w", err)
	}
	return nil
}

func chiefComplaint(inputs map[string]string, fields domain.CapsuleFields) string {
	if v := strings.TrimSpace(inputs["chief_complaint"]); v != "" {
		return v
	}
	if v := strings.TrimSpace(fields.ChiefComplaint); v != "" {
		return v
	}
	return defaultComplaint
}

func userPrompt(tmpl domain.Template, inputs map[string]string, evidence []domain.EvidenceRef) string {
	if inputs == nil {
		inputs = map[string]string{}
	}
	ctxJSON, _ := json.Marshal(inputs)

	blocks := make([]string, len(evidence))
	for i, ref := range evidence {
		blocks[i] = fmt.Sprintf("%s %s\n%s\n(Relevance: %.2f)", citation.Marker(ref.DocID), ref.Title, ref.Snippet, ref.Score)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", tmpl.Type)
	fmt.Fprintf(&b, "Context: %s\n\n", ctxJSON)
	b.WriteString("Retrieved Evidence:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	fmt.Fprintf(&b, "\n\nGenerate a %s with mandatory citations using [DOC:doc_id] format.\n", tmpl.DisplayName)
	b.WriteString("Include specific citations for clinical recommendations.\n")
	return b.String()
}

func evidenceScores(refs []domain.EvidenceRef) []domain.EvidenceScore {
	out := make([]domain.EvidenceScore, len(refs))
	for i, r := range refs {
		out[i] = domain.EvidenceScore{DocID: r.DocID, Score: r.Score}
	}
	return out
}

func pendingTasks(evidence []domain.EvidenceRef) []string {
	tasks := []string{"Review and verify all citations", "Complete missing sections if any"}
	if len(evidence) == 0 {
		tasks = append(tasks, "No evidence was retrieved; regenerate before sign-off")
	}
	return tasks
}

func riskPoints(tmpl domain.Template, fields domain.CapsuleFields) []string {
	var points []string
	if strings.Contains(tmpl.Type, "discharge") {
		points = append(points, "Ensure medication reconciliation")
	} else {
		points = append(points, "Monitor patient progress")
	}
	for _, ind := range fields.RiskIndicators {
		if ind = strings.TrimSpace(ind); ind != "" {
			points = append(points, "Reported at intake: "+ind)
		}
	}
	return points
}
