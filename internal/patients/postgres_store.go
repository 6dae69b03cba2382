package patients

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore reads patient rows from the patients table, in insertion order.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FetchAll(ctx context.Context) (RecordSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT patient_id, prenom, email, exercice_du_jour, remarques
		FROM patients
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query patients: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := RecordSet{}
	for rows.Next() {
		var patientID, prenom, email, exercice, remarques sql.NullString
		if err := rows.Scan(&patientID, &prenom, &email, &exercice, &remarques); err != nil {
			return nil, fmt.Errorf("%w: scan patient: %v", ErrStoreUnavailable, err)
		}

		rec := Record{}
		setIfValid(rec, FieldPatientID, patientID)
		setIfValid(rec, FieldPrenom, prenom)
		setIfValid(rec, FieldEmail, email)
		setIfValid(rec, FieldExerciceDuJour, exercice)
		setIfValid(rec, FieldRemarques, remarques)
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate patients: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

// NULL columns stay absent so Field falls back to its default.
func setIfValid(rec Record, key string, v sql.NullString) {
	if v.Valid {
		rec[key] = v.String
	}
}
