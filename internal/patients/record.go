package patients

// Recognized record keys. Keys are case-sensitive.
const (
	FieldPatientID      = "patient_id"
	FieldPrenom         = "prenom"
	FieldEmail          = "email"
	FieldExerciceDuJour = "exercice_du_jour"
	FieldRemarques      = "remarques"
)

// Record is one row of the record store, header name to cell value.
type Record map[string]string

// RecordSet is an ordered snapshot of the store, built per lookup.
type RecordSet []Record

var fieldDefaults = map[string]string{
	FieldPrenom:         "Inconnu",
	FieldExerciceDuJour: "Non spécifié",
	FieldRemarques:      "Aucune",
}

// Lookup returns the raw value for key and whether the key is present.
func (r Record) Lookup(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

// Field returns the value for key, or the field's default when the key is
// absent. Fields without a registered default fall back to "".
func (r Record) Field(key string) string {
	if v, ok := r[key]; ok {
		return v
	}
	return fieldDefaults[key]
}
