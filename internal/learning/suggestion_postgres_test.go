package learning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
)

var suggestionRowColumns = []string{
	"id", "user_message", "ai_response", "detected_symptoms", "detected_products",
	"confidence_score", "status", "created_at", "reviewed_at", "reviewed_by",
}

func TestPostgresSuggestionStoreInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO learning_suggestions").
		WithArgs("no duermo", "Melatonina Natural", []string{"insomnio"}, []int64{4}, 0.7, "pending").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(21), created))

	sug, err := newPostgresSuggestionStoreWithDB(mock).Insert(context.Background(), Suggestion{
		UserMessage:      "no duermo",
		AIResponse:       "Melatonina Natural",
		DetectedSymptoms: []string{"insomnio"},
		DetectedProducts: []int64{4},
		ConfidenceScore:  0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), sug.ID)
	assert.Equal(t, StatusPending, sug.Status)
	assert.Equal(t, created, sug.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSuggestionStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	store := newPostgresSuggestionStoreWithDB(mock)

	created := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	reviewedAt := created.Add(time.Hour)
	reviewer := int64(7)
	mock.ExpectQuery("SELECT id, user_message").WithArgs(int64(21)).
		WillReturnRows(pgxmock.NewRows(suggestionRowColumns).
			AddRow(int64(21), "no duermo", "Melatonina Natural", []string{"insomnio"}, []int64{4},
				0.7, "approved", created, &reviewedAt, &reviewer))

	sug, err := store.Get(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, sug.Status)
	require.NotNil(t, sug.ReviewedBy)
	assert.Equal(t, int64(7), *sug.ReviewedBy)

	mock.ExpectQuery("SELECT id, user_message").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)
	_, err = store.Get(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSuggestionStoreList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM learning_suggestions").
		WithArgs("pending", 0.9, 10).
		WillReturnRows(pgxmock.NewRows(suggestionRowColumns).
			AddRow(int64(1), "a", "b", []string{"gripe"}, []int64{5}, 0.9, "pending", created, (*time.Time)(nil), (*int64)(nil)).
			AddRow(int64(2), "c", "d", []string{"tos"}, []int64{5, 6}, 1.0, "pending", created, (*time.Time)(nil), (*int64)(nil)))

	out, err := newPostgresSuggestionStoreWithDB(mock).List(context.Background(), ListFilter{
		Status: StatusPending, MinConfidence: 0.9, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].ReviewedAt)
	assert.Equal(t, []int64{5, 6}, out[1].DetectedProducts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSuggestionStoreListDefaultLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM learning_suggestions").
		WithArgs("", 0.0, defaultListLimit).
		WillReturnRows(pgxmock.NewRows(suggestionRowColumns))

	out, err := newPostgresSuggestionStoreWithDB(mock).List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSuggestionStoreSettle(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	store := newPostgresSuggestionStoreWithDB(mock)
	at := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE learning_suggestions").
		WithArgs(int64(21), "approved", int64(7), at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	ok, err := store.Settle(context.Background(), 21, StatusApproved, 7, at)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec("UPDATE learning_suggestions").
		WithArgs(int64(21), "auto_approved", SystemReviewer, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	ok, err = store.Settle(context.Background(), 21, StatusAutoApproved, SystemReviewer, at)
	require.NoError(t, err)
	assert.False(t, ok, "already settled rows are left alone")

	_, err = store.Settle(context.Background(), 21, StatusPending, 7, at)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	mock.ExpectExec("UPDATE learning_suggestions").
		WithArgs(int64(22), "rejected", int64(7), at).
		WillReturnError(errors.New("deadlock"))
	_, err = store.Settle(context.Background(), 22, StatusRejected, 7, at)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSuggestionStoreCountByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("pending", int64(4)).
			AddRow("auto_approved", int64(2)))

	counts, err := newPostgresSuggestionStoreWithDB(mock).CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[Status]int{StatusPending: 4, StatusAutoApproved: 2}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
