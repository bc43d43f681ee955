package transform

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// priceScale is the number of decimal places kept when a price is derived
// from sales and quantity. silver.crm_sales_details.sls_price is an integer
// column, so the quotient is truncated toward zero like integer division.
const priceScale int32 = 0

// RawSale is a row of bronze.crm_sales_details.
type RawSale struct {
	OrderNumber pgtype.Text    `db:"sls_ord_num"`
	ProductKey  pgtype.Text    `db:"sls_prd_key"`
	CustomerID  pgtype.Int4    `db:"sls_cust_id"`
	OrderDate   pgtype.Text    `db:"sls_order_dt"`
	ShipDate    pgtype.Text    `db:"sls_ship_dt"`
	DueDate     pgtype.Text    `db:"sls_due_dt"`
	Sales       pgtype.Numeric `db:"sls_sales"`
	Quantity    pgtype.Int4    `db:"sls_quantity"`
	Price       pgtype.Numeric `db:"sls_price"`
}

// Sale is a row of silver.crm_sales_details.
type Sale struct {
	OrderNumber pgtype.Text
	ProductKey  pgtype.Text
	CustomerID  pgtype.Int4
	OrderDate   pgtype.Date
	ShipDate    pgtype.Date
	DueDate     pgtype.Date
	Sales       decimal.NullDecimal
	Quantity    pgtype.Int4
	Price       decimal.NullDecimal
}

// Sales validates date codes and repairs sales amounts and prices.
func Sales(rows []RawSale) []Sale {
	out := make([]Sale, len(rows))
	for i, r := range rows {
		sales := ToDecimal(r.Sales)
		quantity := IntToDecimal(r.Quantity)
		price := ToDecimal(r.Price)

		out[i] = Sale{
			OrderNumber: r.OrderNumber,
			ProductKey:  r.ProductKey,
			CustomerID:  r.CustomerID,
			OrderDate:   DateFromCode(r.OrderDate),
			ShipDate:    DateFromCode(r.ShipDate),
			DueDate:     DateFromCode(r.DueDate),
			Sales:       RepairSales(sales, quantity, price),
			Quantity:    r.Quantity,
			// The original sales figure is used here, not the repaired one.
			Price: RepairPrice(price, sales, quantity),
		}
	}
	return out
}

// RepairSales returns quantity × |price| when sales is NULL, not positive, or
// differs from that product; otherwise it returns sales unchanged.
//
// When quantity or price is NULL the product is NULL: a positive sales value
// is then kept, and a missing or non-positive one becomes NULL.
func RepairSales(sales, quantity, price decimal.NullDecimal) decimal.NullDecimal {
	expected := decimal.NullDecimal{}
	if quantity.Valid && price.Valid {
		expected = decimal.NullDecimal{Decimal: quantity.Decimal.Mul(price.Decimal.Abs()), Valid: true}
	}

	if !sales.Valid || !sales.Decimal.IsPositive() {
		return expected
	}
	if expected.Valid && !sales.Decimal.Equal(expected.Decimal) {
		return expected
	}
	return sales
}

// RepairPrice returns sales ÷ quantity when price is NULL or not positive;
// otherwise it returns price unchanged. A NULL or zero quantity yields NULL.
func RepairPrice(price, sales, quantity decimal.NullDecimal) decimal.NullDecimal {
	if price.Valid && price.Decimal.IsPositive() {
		return price
	}
	if !sales.Valid || !quantity.Valid || quantity.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: sales.Decimal.Div(quantity.Decimal).Truncate(priceScale),
		Valid:   true,
	}
}
