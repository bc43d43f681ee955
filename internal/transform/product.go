package transform

import (
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	// categoryPrefixLen is how many leading characters of a raw product key form the category id.
	categoryPrefixLen = 5
	// productKeyOffset is how many leading characters are dropped to form the product key.
	productKeyOffset = 6
)

// RawProduct is a row of bronze.crm_prd_info.
type RawProduct struct {
	ID        pgtype.Int4    `db:"prd_id"`
	Key       pgtype.Text    `db:"prd_key"`
	Name      pgtype.Text    `db:"prd_nm"`
	Cost      pgtype.Numeric `db:"prd_cost"`
	Line      pgtype.Text    `db:"prd_line"`
	StartDate pgtype.Date    `db:"prd_start_dt"`
}

// Product is a row of silver.crm_prd_info.
type Product struct {
	ID         pgtype.Int4
	CategoryID pgtype.Text
	Key        pgtype.Text
	Name       pgtype.Text
	Cost       decimal.Decimal
	Line       string
	StartDate  pgtype.Date
	EndDate    pgtype.Date
}

// SplitProductKey derives the category id and product key from a raw key.
//
// The category id is the first five characters with '-' replaced by '_'; the
// product key is everything after the sixth character. Short keys yield
// whatever characters are available.
func SplitProductKey(raw pgtype.Text) (categoryID, productKey pgtype.Text) {
	if !raw.Valid {
		return pgtype.Text{}, pgtype.Text{}
	}
	r := []rune(raw.String)

	prefix := r[:min(categoryPrefixLen, len(r))]
	categoryID = pgtype.Text{String: strings.ReplaceAll(string(prefix), "-", "_"), Valid: true}

	rest := r[min(productKeyOffset, len(r)):]
	productKey = pgtype.Text{String: string(rest), Valid: true}
	return categoryID, productKey
}

// Products normalizes product rows and derives each version's end date.
//
// Rows are partitioned by derived product key and ordered by start date
// (NULL last); a row's end date is the day before the next row's start date,
// and the last row of each partition gets NULL. Output keeps input order.
func Products(rows []RawProduct) []Product {
	out := make([]Product, len(rows))
	partitions := make(map[pgtype.Text][]int)

	for i, r := range rows {
		categoryID, key := SplitProductKey(r.Key)

		cost := decimal.Zero
		if c := ToDecimal(r.Cost); c.Valid {
			cost = c.Decimal
		}

		out[i] = Product{
			ID:         r.ID,
			CategoryID: categoryID,
			Key:        key,
			Name:       r.Name,
			Cost:       cost,
			Line:       ProductLine(r.Line),
			StartDate:  r.StartDate,
		}
		partitions[key] = append(partitions[key], i)
	}

	for _, idx := range partitions {
		sort.SliceStable(idx, func(a, b int) bool {
			return startsBefore(out[idx[a]].StartDate, out[idx[b]].StartDate)
		})
		for n, i := range idx {
			if n+1 < len(idx) {
				out[i].EndDate = dayBefore(out[idx[n+1]].StartDate)
			}
		}
	}

	return out
}

// startsBefore orders start dates ascending with NULL last.
func startsBefore(a, b pgtype.Date) bool {
	switch {
	case !a.Valid:
		return false
	case !b.Valid:
		return true
	default:
		return a.Time.Before(b.Time)
	}
}
