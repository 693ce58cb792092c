package knowledge

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

var symptomRowColumns = []string{"id", "name", "description", "synonyms", "severity", "category", "created_at"}

func TestPostgresStoreSaveSymptom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO symptoms").
		WithArgs("estrés", "estres", "", pgxmock.AnyArg(), SeverityMild, CategoryAutoDetected).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := newPostgresStoreWithDB(mock).SaveSymptom(context.Background(), Symptom{
		Name: " Estrés ", Severity: SeverityMild, Category: CategoryAutoDetected,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetSymptomByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	store := newPostgresStoreWithDB(mock)
	now := time.Now().UTC()
	desc := "Dolor punzante"

	mock.ExpectQuery("SELECT id, name").WithArgs("migrana").
		WillReturnRows(pgxmock.NewRows(symptomRowColumns).AddRow(int64(3), "migraña", &desc, []string{"jaqueca"}, "moderada", "neurologicas", now))
	sym, err := store.GetSymptomByName(context.Background(), "Migraña")
	require.NoError(t, err)
	assert.Equal(t, "migraña", sym.Name)
	assert.Equal(t, "Dolor punzante", sym.Description)
	assert.Equal(t, []string{"jaqueca"}, sym.Synonyms)

	mock.ExpectQuery("SELECT id, name").WithArgs("vertigo").WillReturnError(pgx.ErrNoRows)
	_, err = store.GetSymptomByName(context.Background(), "vértigo")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSearchSymptoms(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM symptoms").WithArgs("tengo dolor de cabeza", 5).
		WillReturnRows(pgxmock.NewRows(symptomRowColumns).
			AddRow(int64(1), "dolor de cabeza", (*string)(nil), []string{}, SeverityMild, CategoryAutoDetected, time.Now()))

	found, err := newPostgresStoreWithDB(mock).SearchSymptoms(context.Background(), "Tengo dolor de cabeza", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "", found[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSearchFailureIsExternal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM symptoms").WillReturnError(errors.New("timeout"))
	_, err = newPostgresStoreWithDB(mock).SearchSymptoms(context.Background(), "tos", 5)
	assert.True(t, errors.Is(err, apperrors.ErrExternalCollaborator))
}

func TestPostgresStoreRelateProduct(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO symptom_products").WithArgs(int64(1), int64(9), 10, "note").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, newPostgresStoreWithDB(mock).RelateProductToSymptom(context.Background(), 1, 9, 12, "note"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreRelatedProducts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	store := newPostgresStoreWithDB(mock)

	mock.ExpectQuery("FROM symptom_products").WithArgs([]string{"estres", "insomnio"}).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "max"}).AddRow(int64(4), 9).AddRow(int64(5), 7))

	related, err := store.RelatedProducts(context.Background(), []string{"estrés", "Estres", "insomnio"})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{4: 9, 5: 7}, related)

	empty, err := store.RelatedProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
