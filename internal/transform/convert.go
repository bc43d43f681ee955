package transform

// convert.go converts between the pgtype values read from and written to the
// warehouse and the types the rules work with.
//
// All To* functions return values with Valid=false for NULL or unusable
// input, so NULL propagates the way it does in SQL expressions.

import (
	"math/big"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// dateCodeLayout is the layout of integer date codes such as 20240131.
const dateCodeLayout = "20060102"

// ToDecimal converts a pgtype.Numeric to a decimal.NullDecimal.
// NaN and infinities are treated as NULL.
func ToDecimal(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.NullDecimal{}
	}
	if n.Int == nil {
		return decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromBigInt(n.Int, n.Exp), Valid: true}
}

// ToNumeric converts a decimal.NullDecimal to a pgtype.Numeric for loading.
func ToNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{Valid: false}
	}
	return pgtype.Numeric{
		Int:   new(big.Int).Set(d.Decimal.Coefficient()),
		Exp:   d.Decimal.Exponent(),
		Valid: true,
	}
}

// IntToDecimal converts a pgtype.Int4 to a decimal.NullDecimal.
func IntToDecimal(i pgtype.Int4) decimal.NullDecimal {
	if !i.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromInt32(i.Int32), Valid: true}
}

// DateFromCode converts a YYYYMMDD date code to a date.
//
// Codes are read as text so bronze values of any type survive extraction.
// NULL, "0", codes that are not exactly eight digits, and eight-digit codes
// that are not calendar dates all yield NULL.
func DateFromCode(code pgtype.Text) pgtype.Date {
	if !code.Valid || code.String == "0" || len(code.String) != len(dateCodeLayout) {
		return pgtype.Date{Valid: false}
	}
	for _, c := range code.String {
		if c < '0' || c > '9' {
			return pgtype.Date{Valid: false}
		}
	}
	t, err := time.Parse(dateCodeLayout, code.String)
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// dayBefore returns the date one day earlier, keeping NULL as NULL.
func dayBefore(d pgtype.Date) pgtype.Date {
	if !d.Valid {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: d.Time.AddDate(0, 0, -1), Valid: true}
}
