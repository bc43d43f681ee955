package transform

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitProductKey(t *testing.T) {
	tests := []struct {
		name         string
		raw          pgtype.Text
		wantCategory pgtype.Text
		wantKey      pgtype.Text
	}{
		{"typical", text("CO-RF-FR-R92B-58"), text("CO_RF"), text("FR-R92B-58")},
		{"fixed split", text("AB-CD12-HL-U509"), text("AB_CD"), text("2-HL-U509")},
		{"exactly six", text("AC-HE-"), text("AC_HE"), text("")},
		{"short", text("AB"), text("AB"), text("")},
		{"null", pgtype.Text{}, pgtype.Text{}, pgtype.Text{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, key := SplitProductKey(tt.raw)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestProducts_EndDates(t *testing.T) {
	rows := []RawProduct{
		{ID: i4(3), Key: text("CO-RF-FR-R92B-58"), StartDate: date(2013, 7, 1)},
		{ID: i4(1), Key: text("CO-RF-FR-R92B-58"), StartDate: date(2011, 7, 1)},
		{ID: i4(2), Key: text("CO-RF-FR-R92B-58"), StartDate: date(2012, 7, 1)},
		{ID: i4(4), Key: text("AC-HE-HL-U509"), StartDate: date(2011, 7, 1)},
	}

	got := Products(rows)

	require.Len(t, got, 4)
	// Output keeps input order.
	assert.Equal(t, i4(3), got[0].ID)
	assert.Equal(t, pgtype.Date{}, got[0].EndDate)
	assert.Equal(t, date(2012, 6, 30), got[1].EndDate)
	assert.Equal(t, date(2013, 6, 30), got[2].EndDate)
	assert.Equal(t, pgtype.Date{}, got[3].EndDate)
}

func TestProducts_EndDateAfterStart(t *testing.T) {
	rows := []RawProduct{
		{Key: text("BI-RB-BK-R93R-62"), StartDate: date(2011, 7, 1)},
		{Key: text("BI-RB-BK-R93R-62"), StartDate: date(2012, 7, 1)},
		{Key: text("BI-RB-BK-R93R-62"), StartDate: date(2013, 7, 1)},
	}

	for _, p := range Products(rows) {
		if p.EndDate.Valid {
			assert.False(t, p.EndDate.Time.Before(p.StartDate.Time), "end %v before start %v", p.EndDate.Time, p.StartDate.Time)
		}
	}
}

func TestProducts_NullStartSortsLast(t *testing.T) {
	rows := []RawProduct{
		{ID: i4(1), Key: text("CO-RF-FR-R92B-58")},
		{ID: i4(2), Key: text("CO-RF-FR-R92B-58"), StartDate: date(2012, 7, 1)},
	}

	got := Products(rows)

	assert.Equal(t, pgtype.Date{}, got[0].EndDate, "NULL start is last in its partition")
	assert.Equal(t, pgtype.Date{}, got[1].EndDate, "next start is NULL so end is NULL")
}

func TestProducts_CostAndLine(t *testing.T) {
	rows := []RawProduct{
		{Key: text("CO-RF-FR-R92B-58"), Line: text(" r "), Cost: numeric(42)},
		{Key: text("CO-RF-FR-R92R-58"), Line: text("Z")},
		{Key: text("CO-RF-FR-R92S-58"), Cost: numeric(-3)},
	}

	got := Products(rows)

	assert.True(t, got[0].Cost.Equal(decimal.NewFromInt(42)))
	assert.Equal(t, "Road", got[0].Line)
	assert.True(t, got[1].Cost.IsZero(), "NULL cost defaults to 0")
	assert.Equal(t, NotAvailable, got[1].Line)
	assert.True(t, got[2].Cost.Equal(decimal.NewFromInt(-3)), "negative cost passes through")
}
