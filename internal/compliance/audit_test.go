package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_RecordReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   ReviewEvent
		execErr error
		wantErr bool
	}{
		{
			name: "manual approval",
			event: ReviewEvent{
				SuggestionID:     11,
				Action:           string(ActionApproved),
				ReviewerID:       7,
				RelationsCreated: 2,
				Symptoms:         []string{"insomnio"},
				ProductIDs:       []int64{3, 4},
				Confidence:       0.8,
				OccurredAt:       at,
			},
		},
		{
			name: "auto approval",
			event: ReviewEvent{
				SuggestionID: 12,
				Action:       string(ActionAutoApproved),
				Symptoms:     []string{"estrés", "ansiedad"},
				ProductIDs:   []int64{9},
				Confidence:   1,
				OccurredAt:   at,
			},
		},
		{
			name:    "database failure",
			event:   ReviewEvent{SuggestionID: 13, Action: string(ActionRejected), OccurredAt: at},
			execErr: errors.New("connection reset"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := mock.ExpectExec("INSERT INTO learning_audit_events").
				WithArgs(sqlmock.AnyArg(), tt.event.SuggestionID, tt.event.Action, tt.event.ReviewerID,
					tt.event.RelationsCreated, pq.Array(tt.event.Symptoms), pq.Array(tt.event.ProductIDs),
					tt.event.Confidence, at)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err := service.RecordReview(context.Background(), tt.event)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_ReviewHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "suggestion_id", "action", "reviewer_id", "relations_created",
		"symptoms", "product_ids", "confidence", "occurred_at",
	}).AddRow("evt-1", int64(11), "approved", int64(7), 2, "{insomnio,estrés}", "{3,4}", 0.8, at)

	mock.ExpectQuery("SELECT (.+) FROM learning_audit_events").
		WithArgs(int64(11)).
		WillReturnRows(rows)

	events, err := NewAuditService(db).ReviewHistory(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"insomnio", "estrés"}, events[0].Symptoms)
	assert.Equal(t, []int64{3, 4}, events[0].ProductIDs)
	assert.Equal(t, int64(7), events[0].ReviewerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewAuditServicePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewAuditService(nil) })
}
