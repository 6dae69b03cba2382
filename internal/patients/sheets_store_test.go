package patients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const valuesJSON = `{
  "range": "'Feuille 1'!A1:E4",
  "majorDimension": "ROWS",
  "values": [
    ["patient_id", "prenom", "email", "exercice_du_jour", "remarques", ""],
    [12, "Alice", "alice@example.com", "10 squats", "none", "ignored"],
    ["", "", ""],
    ["p2", "Bob"]
  ]
}`

type fakeGoogle struct {
	paths       []string
	valuesError bool
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.paths = append(f.paths, r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/files":
		_, _ = w.Write([]byte(`{"files":[{"id":"sheet-123","name":"Patients"}]}`))
	case strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-123/values/"):
		if f.valuesError {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
			return
		}
		_, _ = w.Write([]byte(valuesJSON))
	case r.URL.Path == "/v4/spreadsheets/sheet-123":
		_, _ = w.Write([]byte(`{"sheets":[{"properties":{"title":"Feuille 1"}}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
	}
}

func newTestSheetsStore(t *testing.T, fake *fakeGoogle, cfg SheetsConfig) *SheetsStore {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewSheetsStore(context.Background(), cfg,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return store
}

func TestSheetsStore_FetchAllByTitle(t *testing.T) {
	fake := &fakeGoogle{}
	store := newTestSheetsStore(t, fake, SheetsConfig{Title: "Patients"})

	records, err := store.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Record{
		FieldPatientID:      "12",
		FieldPrenom:         "Alice",
		FieldEmail:          "alice@example.com",
		FieldExerciceDuJour: "10 squats",
		FieldRemarques:      "none",
	}, records[0])
	assert.Equal(t, "Bob", records[1][FieldPrenom])
	assert.Equal(t, "", records[1][FieldRemarques])

	require.Len(t, fake.paths, 3)
	assert.Equal(t, "/files", fake.paths[0])
	assert.Equal(t, "/v4/spreadsheets/sheet-123", fake.paths[1])
}

func TestSheetsStore_FetchAllWithIDAndRange(t *testing.T) {
	fake := &fakeGoogle{}
	store := newTestSheetsStore(t, fake, SheetsConfig{SpreadsheetID: "sheet-123", Range: "A1:E100"})

	records, err := store.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.Len(t, fake.paths, 1)
	assert.True(t, strings.HasPrefix(fake.paths[0], "/v4/spreadsheets/sheet-123/values/"))
}

func TestSheetsStore_FetchAllFailure(t *testing.T) {
	fake := &fakeGoogle{valuesError: true}
	store := newTestSheetsStore(t, fake, SheetsConfig{SpreadsheetID: "sheet-123", Range: "A1:E100"})

	_, err := store.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestSheetsStore_UnknownSpreadsheet(t *testing.T) {
	fake := &fakeGoogle{}
	store := newTestSheetsStore(t, fake, SheetsConfig{SpreadsheetID: "missing", Range: "A1:B2"})

	_, err := store.FetchAll(context.Background())
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestNewSheetsStore_RequiresLocation(t *testing.T) {
	_, err := NewSheetsStore(context.Background(), SheetsConfig{}, option.WithoutAuthentication())
	assert.Error(t, err)
}

func TestRowsToRecords_Empty(t *testing.T) {
	assert.Empty(t, rowsToRecords(nil))
	assert.Empty(t, rowsToRecords([][]interface{}{{"patient_id", "prenom"}}))
}

func TestQuoteSheetTitle(t *testing.T) {
	assert.Equal(t, "'Sheet1'", quoteSheetTitle("Sheet1"))
	assert.Equal(t, "'Kiné''s list'", quoteSheetTitle("Kiné's list"))
}
