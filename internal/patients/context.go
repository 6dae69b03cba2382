package patients

import "strings"

var contextLines = []struct {
	label string
	field string
}{
	{"Prénom", FieldPrenom},
	{"Exercice du jour", FieldExerciceDuJour},
	{"Remarques", FieldRemarques},
}

// Assemble flattens a record into the text block fed to the completion prompt.
// Values are passed through verbatim.
func Assemble(rec Record) string {
	var b strings.Builder
	for i, line := range contextLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.label)
		b.WriteString(" : ")
		b.WriteString(rec.Field(line.field))
	}
	return b.String()
}
