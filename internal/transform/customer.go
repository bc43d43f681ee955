package transform

import (
	"sort"

	"github.com/jackc/pgx/v5/pgtype"
)

// RawCustomer is a row of bronze.crm_cust_info.
type RawCustomer struct {
	ID            pgtype.Int4 `db:"cst_id"`
	Key           pgtype.Text `db:"cst_key"`
	FirstName     pgtype.Text `db:"cst_firstname"`
	LastName      pgtype.Text `db:"cst_lastname"`
	MaritalStatus pgtype.Text `db:"cst_marital_status"`
	Gender        pgtype.Text `db:"cst_gndr"`
	CreateDate    pgtype.Date `db:"cst_create_date"`
}

// Customer is a row of silver.crm_cust_info.
type Customer struct {
	ID            int32
	Key           pgtype.Text
	FirstName     pgtype.Text
	LastName      pgtype.Text
	MaritalStatus string
	Gender        string
	CreateDate    pgtype.Date
}

// Customers keeps the latest record per customer id and normalizes it.
//
// Rows without an id are dropped. Among rows sharing an id the one with the
// greatest create date wins; a NULL create date loses to any date and ties
// keep the earliest row in input order. Output is ordered by id.
func Customers(rows []RawCustomer) []Customer {
	latest := make(map[int32]RawCustomer, len(rows))
	for _, r := range rows {
		if !r.ID.Valid {
			continue
		}
		cur, seen := latest[r.ID.Int32]
		if !seen || newerDate(r.CreateDate, cur.CreateDate) {
			latest[r.ID.Int32] = r
		}
	}

	ids := make([]int32, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Customer, 0, len(ids))
	for _, id := range ids {
		r := latest[id]
		out = append(out, Customer{
			ID:            id,
			Key:           r.Key,
			FirstName:     trimText(r.FirstName),
			LastName:      trimText(r.LastName),
			MaritalStatus: MaritalStatus(r.MaritalStatus),
			Gender:        CustomerGender(r.Gender),
			CreateDate:    r.CreateDate,
		})
	}
	return out
}

// newerDate reports whether a is strictly later than b, ranking NULL lowest.
func newerDate(a, b pgtype.Date) bool {
	switch {
	case !a.Valid:
		return false
	case !b.Valid:
		return true
	default:
		return a.Time.After(b.Time)
	}
}
