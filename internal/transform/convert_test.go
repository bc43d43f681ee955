package transform

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ----------------------------------------------------------------------------
// ToDecimal Tests
// ----------------------------------------------------------------------------

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name      string
		input     pgtype.Numeric
		wantValid bool
		wantValue string
	}{
		{
			name:      "integer",
			input:     numeric(123),
			wantValid: true,
			wantValue: "123",
		},
		{
			name:      "scaled decimal",
			input:     pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true},
			wantValid: true,
			wantValue: "123.45",
		},
		{
			name:      "negative",
			input:     numeric(-7),
			wantValid: true,
			wantValue: "-7",
		},
		{
			name:      "nil coefficient is zero",
			input:     pgtype.Numeric{Valid: true},
			wantValid: true,
			wantValue: "0",
		},
		{
			name:      "null",
			input:     pgtype.Numeric{},
			wantValid: false,
		},
		{
			name:      "NaN",
			input:     pgtype.Numeric{NaN: true, Valid: true},
			wantValid: false,
		},
		{
			name:      "infinity",
			input:     pgtype.Numeric{InfinityModifier: pgtype.Infinity, Valid: true},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDecimal(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ToDecimal().Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if tt.wantValid && got.Decimal.String() != tt.wantValue {
				t.Errorf("ToDecimal() = %s, want %s", got.Decimal.String(), tt.wantValue)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ToNumeric Tests
// ----------------------------------------------------------------------------

func TestToNumeric(t *testing.T) {
	d := decimal.RequireFromString("-12.50")
	got := ToNumeric(decimal.NewNullDecimal(d))

	if !got.Valid {
		t.Fatal("ToNumeric() should be valid")
	}
	back := ToDecimal(got)
	if !back.Decimal.Equal(d) {
		t.Errorf("round trip = %s, want %s", back.Decimal, d)
	}

	if ToNumeric(decimal.NullDecimal{}).Valid {
		t.Error("ToNumeric(NULL) should be invalid")
	}
}

func TestToNumeric_DoesNotAliasCoefficient(t *testing.T) {
	d := decimal.NewFromInt(42)
	got := ToNumeric(decimal.NewNullDecimal(d))

	got.Int.SetInt64(1)
	if !d.Equal(decimal.NewFromInt(42)) {
		t.Errorf("source decimal changed to %s", d)
	}
}

// ----------------------------------------------------------------------------
// IntToDecimal Tests
// ----------------------------------------------------------------------------

func TestIntToDecimal(t *testing.T) {
	if got := IntToDecimal(i4(5)); !got.Valid || !got.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Errorf("IntToDecimal(5) = %v", got)
	}
	if IntToDecimal(pgtype.Int4{}).Valid {
		t.Error("IntToDecimal(NULL) should be invalid")
	}
}

func TestDayBefore(t *testing.T) {
	if got := dayBefore(date(2024, 3, 1)); !got.Valid || !got.Time.Equal(date(2024, 2, 29).Time) {
		t.Errorf("dayBefore(2024-03-01) = %v, want 2024-02-29", got.Time)
	}
	if dayBefore(pgtype.Date{}).Valid {
		t.Error("dayBefore(NULL) should be NULL")
	}
}
