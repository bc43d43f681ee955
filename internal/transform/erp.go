package transform

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// erpCustomerPrefix marks ERP customer ids that carry a legacy prefix.
	erpCustomerPrefix = "NAS"
	// locationIDSeparator replaces every '-' in ERP location ids.
	locationIDSeparator = " "
)

var countryNames = map[string]string{
	"DE":  "Germany",
	"US":  "United States",
	"USA": "United States",
}

// RawErpCustomer is a row of bronze.erp_cust_az12.
type RawErpCustomer struct {
	CID       pgtype.Text `db:"cid"`
	BirthDate pgtype.Date `db:"bdate"`
	Gender    pgtype.Text `db:"gen"`
}

// ErpCustomer is a row of silver.erp_cust_az12.
type ErpCustomer struct {
	CID       pgtype.Text
	BirthDate pgtype.Date
	Gender    string
}

// RawLocation is a row of bronze.erp_loc_a101.
type RawLocation struct {
	CID     pgtype.Text `db:"cid"`
	Country pgtype.Text `db:"cntry"`
}

// Location is a row of silver.erp_loc_a101.
type Location struct {
	CID     pgtype.Text
	Country string
}

// Category is a row of bronze.erp_px_cat_g1v2 and of its silver copy.
type Category struct {
	ID          pgtype.Text `db:"id"`
	Category    pgtype.Text `db:"cat"`
	Subcategory pgtype.Text `db:"subcat"`
	Maintenance pgtype.Text `db:"maintenance"`
}

// ErpCustomers strips the legacy id prefix, drops future birth dates and
// normalizes gender. now is the processing time birth dates are checked against.
func ErpCustomers(rows []RawErpCustomer, now time.Time) []ErpCustomer {
	out := make([]ErpCustomer, len(rows))
	for i, r := range rows {
		out[i] = ErpCustomer{
			CID:       StripCustomerPrefix(r.CID),
			BirthDate: PastBirthDate(r.BirthDate, now),
			Gender:    ErpGender(r.Gender),
		}
	}
	return out
}

// StripCustomerPrefix removes a leading "NAS" from an ERP customer id.
func StripCustomerPrefix(cid pgtype.Text) pgtype.Text {
	if !cid.Valid || !strings.HasPrefix(cid.String, erpCustomerPrefix) {
		return cid
	}
	return pgtype.Text{String: cid.String[len(erpCustomerPrefix):], Valid: true}
}

// PastBirthDate returns NULL for a birth date strictly after now.
func PastBirthDate(d pgtype.Date, now time.Time) pgtype.Date {
	if !d.Valid {
		return d
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	if d.Time.After(today) {
		return pgtype.Date{Valid: false}
	}
	return d
}

// Locations normalizes ERP location ids and country names.
func Locations(rows []RawLocation) []Location {
	out := make([]Location, len(rows))
	for i, r := range rows {
		out[i] = Location{
			CID:     NormalizeLocationID(r.CID),
			Country: Country(r.Country),
		}
	}
	return out
}

// NormalizeLocationID replaces every '-' in a location id.
func NormalizeLocationID(cid pgtype.Text) pgtype.Text {
	if !cid.Valid {
		return cid
	}
	return pgtype.Text{String: strings.ReplaceAll(cid.String, "-", locationIDSeparator), Valid: true}
}

// Country maps DE, US and USA to full names and blank values to n/a.
// Any other value is returned trimmed.
func Country(v pgtype.Text) string {
	if !v.Valid {
		return NotAvailable
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return NotAvailable
	}
	if name, ok := countryNames[s]; ok {
		return name
	}
	return s
}

// Categories copies category rows unchanged.
func Categories(rows []Category) []Category {
	out := make([]Category, len(rows))
	copy(out, rows)
	return out
}
