package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// SeedCase inserts an active public case.
func SeedCase(t *testing.T, pool *pgxpool.Pool) domain.Case {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.Case{
		ID:          uuid.New(),
		Number:      domain.NewCaseNumber(domain.TrackPublic, now),
		OriginTrack: domain.TrackPublic,
		Status:      domain.CaseActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO cases (id, case_number, origin_track, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Number, string(c.OriginTrack), string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCase: %v", err)
	}
	return c
}

// SeedCapsule inserts a valid capsule for caseID.
func SeedCapsule(t *testing.T, pool *pgxpool.Pool, caseID uuid.UUID) domain.IntakeCapsule {
	t.Helper()

	c := domain.IntakeCapsule{
		ID:               domain.NewCapsuleID(),
		CaseID:           caseID,
		SelfDescription:  "I have not slept well for two weeks",
		ModelSummary:     "Sleep disturbance",
		StructuredData:   []byte(`{"chief_complaint":"insomnia","self_description":"I have not slept well for two weeks"}`),
		ValidationStatus: domain.ValidationValid,
		Model:            "qwen2.5:1.5b-instruct",
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO intake_capsules (id, case_id, self_description, model_summary, structured_data, validation_status, model, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.CaseID, c.SelfDescription, c.ModelSummary, c.StructuredData, string(c.ValidationStatus), c.Model, c.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCapsule: %v", err)
	}
	return c
}
