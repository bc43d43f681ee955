package transform

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// NotAvailable is the sentinel written for categorical values that do not map.
const NotAvailable = "n/a"

var (
	maritalStatuses = map[string]string{
		"S": "Single",
		"M": "Married",
	}

	customerGenders = map[string]string{
		"F": "Female",
		"M": "Male",
	}

	productLines = map[string]string{
		"M": "Mountain",
		"R": "Road",
		"S": "Other Sales",
		"T": "Touring",
	}

	erpGenders = map[string]string{
		"F":      "Female",
		"FEMALE": "Female",
		"M":      "Male",
		"MALE":   "Male",
	}
)

// normalizeCode trims and upper-cases a code. NULL becomes "".
func normalizeCode(v pgtype.Text) string {
	if !v.Valid {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(v.String))
}

// lookupCode maps a code through m, falling back to NotAvailable.
func lookupCode(m map[string]string, v pgtype.Text) string {
	if name, ok := m[normalizeCode(v)]; ok {
		return name
	}
	return NotAvailable
}

// MaritalStatus maps a CRM marital status code to Single, Married or n/a.
func MaritalStatus(v pgtype.Text) string {
	return lookupCode(maritalStatuses, v)
}

// CustomerGender maps a CRM gender code to Female, Male or n/a.
func CustomerGender(v pgtype.Text) string {
	return lookupCode(customerGenders, v)
}

// ProductLine maps a CRM product line code to its display name or n/a.
func ProductLine(v pgtype.Text) string {
	return lookupCode(productLines, v)
}

// ErpGender maps ERP gender spellings (F, FEMALE, M, MALE) to Female, Male or n/a.
func ErpGender(v pgtype.Text) string {
	return lookupCode(erpGenders, v)
}

// trimText trims surrounding whitespace and keeps NULL as NULL.
func trimText(v pgtype.Text) pgtype.Text {
	if !v.Valid {
		return v
	}
	return pgtype.Text{String: strings.TrimSpace(v.String), Valid: true}
}
