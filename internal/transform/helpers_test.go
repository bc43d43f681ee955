package transform

import (
	"math/big"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func text(s string) pgtype.Text { return pgtype.Text{String: s, Valid: true} }

func i4(i int32) pgtype.Int4 { return pgtype.Int4{Int32: i, Valid: true} }

func code(s string) pgtype.Text { return pgtype.Text{String: s, Valid: true} }

func numeric(i int64) pgtype.Numeric {
	return pgtype.Numeric{Int: big.NewInt(i), Valid: true}
}

func date(y int, m time.Month, d int) pgtype.Date {
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func dec(i int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(i), Valid: true}
}
