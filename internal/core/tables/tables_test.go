package tables

import (
	"context"
	"errors"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/silverload/internal/core"
	"github.com/JonMunkholm/silverload/internal/transform"
)

// fakeRows serves fixed rows to pgx.CollectRows.
type fakeRows struct {
	pgx.Rows
	columns []string
	data    [][]any
	pos     int
	closed  bool
}

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return errors.New("fakeRows: destination count mismatch")
	}
	for i, v := range row {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }

// fakeDBTX answers every query with the same rows and records the SQL.
type fakeDBTX struct {
	core.DBTX
	rows     *fakeRows
	queryErr error
	queries  []string
}

func (db *fakeDBTX) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	db.queries = append(db.queries, sql)
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	return db.rows, nil
}

func text(s string) pgtype.Text { return pgtype.Text{String: s, Valid: true} }

func TestRegisteredTables_Order(t *testing.T) {
	var keys []string
	for _, def := range core.All() {
		keys = append(keys, def.Info.Key)
		assert.Equal(t, def.Info.Key, def.Info.Target)
		assert.Equal(t, def.Info.Key, def.Info.Source)
		assert.NotEmpty(t, def.Info.Columns)
	}

	assert.Equal(t, []string{
		"crm_cust_info",
		"crm_prd_info",
		"crm_sales_details",
		"erp_cust_az12",
		"erp_loc_a101",
		"erp_px_cat_g1v2",
	}, keys)
}

func TestQueries(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "customers",
			query: customerQuery("bronze"),
			want:  `SELECT cst_id, cst_key, cst_firstname, cst_lastname, cst_marital_status, cst_gndr, cst_create_date FROM "bronze"."crm_cust_info" ORDER BY cst_id, cst_create_date, cst_key`,
		},
		{
			name:  "products",
			query: productQuery("bronze"),
			want:  `SELECT prd_id, prd_key, prd_nm, CAST(prd_cost AS NUMERIC) AS prd_cost, prd_line, CAST(prd_start_dt AS DATE) AS prd_start_dt FROM "bronze"."crm_prd_info" ORDER BY prd_id, prd_key, prd_start_dt`,
		},
		{
			name:  "locations with custom schema",
			query: locationQuery("raw"),
			want:  `SELECT cid, cntry FROM "raw"."erp_loc_a101" ORDER BY cid, cntry`,
		},
		{
			name:  "categories",
			query: categoryQuery("bronze"),
			want:  `SELECT id, cat, subcat, maintenance FROM "bronze"."erp_px_cat_g1v2" ORDER BY id`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query)
		})
	}
}

func TestSalesQuery_CastsCodesAndAmounts(t *testing.T) {
	q := salesQuery("bronze")

	assert.Contains(t, q, "CAST(sls_order_dt AS TEXT) AS sls_order_dt")
	assert.Contains(t, q, "CAST(sls_sales AS NUMERIC) AS sls_sales")
	assert.Contains(t, q, "CAST(sls_price AS NUMERIC) AS sls_price")
	assert.Contains(t, q, `FROM "bronze"."crm_sales_details"`)
}

func TestRowsMatchColumns(t *testing.T) {
	assert.Len(t, customerRow(transform.Customer{}), len(customerColumns))
	assert.Len(t, productRow(transform.Product{}), len(productColumns))
	assert.Len(t, salesRow(transform.Sale{}), len(salesColumns))
	assert.Len(t, erpCustomerRow(transform.ErpCustomer{}), len(erpCustomerColumns))
	assert.Len(t, locationRow(transform.Location{}), len(locationColumns))
	assert.Len(t, categoryRow(transform.Category{}), len(categoryColumns))
}

func TestProductRow_CostAsNumeric(t *testing.T) {
	row := productRow(transform.Product{Cost: decimal.NewFromInt(12)})

	cost, ok := row[4].(pgtype.Numeric)
	require.True(t, ok)
	assert.True(t, cost.Valid)
	assert.Equal(t, 0, cost.Int.Cmp(big.NewInt(12)))
}

func TestBuildRows_Locations(t *testing.T) {
	def, ok := core.Get("erp_loc_a101")
	require.True(t, ok)

	db := &fakeDBTX{rows: &fakeRows{
		columns: []string{"cid", "cntry"},
		data: [][]any{
			{text("AW-00011000"), text("DE")},
			{text("AW-00011001"), pgtype.Text{}},
		},
	}}

	res, err := def.BuildRows(context.Background(), db, core.BuildContext{BronzeSchema: "bronze"})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Extracted)
	assert.Equal(t, [][]any{
		{text("AW 00011000"), "Germany"},
		{text("AW 00011001"), transform.NotAvailable},
	}, res.Rows)
	assert.Equal(t, []string{locationQuery("bronze")}, db.queries)
	assert.True(t, db.rows.closed)
}

func TestBuildRows_ErpCustomersUseBatchTime(t *testing.T) {
	def, ok := core.Get("erp_cust_az12")
	require.True(t, ok)

	future := pgtype.Date{Time: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	db := &fakeDBTX{rows: &fakeRows{
		columns: []string{"cid", "bdate", "gen"},
		data:    [][]any{{text("NASAW1"), future, text("F")}},
	}}

	bc := core.BuildContext{BronzeSchema: "bronze", Now: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)}
	res, err := def.BuildRows(context.Background(), db, bc)

	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{text("AW1"), pgtype.Date{}, "Female"}, res.Rows[0])
}

func TestBuildRows_QueryError(t *testing.T) {
	def, ok := core.Get("crm_cust_info")
	require.True(t, ok)

	db := &fakeDBTX{queryErr: &pgconn.PgError{Severity: "ERROR", Code: "42P01", Message: `relation "bronze.crm_cust_info" does not exist`}}

	_, err := def.BuildRows(context.Background(), db, core.BuildContext{BronzeSchema: "bronze"})

	require.Error(t, err)
	assert.Equal(t, "42P01", core.DescribeError(err).Code)
	assert.Contains(t, err.Error(), "query bronze")
}

func TestBuildRows_SalesMalformedDateCodes(t *testing.T) {
	def, ok := core.Get("crm_sales_details")
	require.True(t, ok)

	num := func(i int64) pgtype.Numeric { return pgtype.Numeric{Int: big.NewInt(i), Valid: true} }
	db := &fakeDBTX{rows: &fakeRows{
		columns: salesColumns,
		data: [][]any{{
			text("SO43697"), text("BK-R93R-62"), pgtype.Int4{Int32: 21768, Valid: true},
			text("2021-1-1"), text("N/A"), text("20110110"),
			num(3578), pgtype.Int4{Int32: 1, Valid: true}, num(3578),
		}},
	}}

	res, err := def.BuildRows(context.Background(), db, core.BuildContext{BronzeSchema: "bronze"})

	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, pgtype.Date{}, row[3])
	assert.Equal(t, pgtype.Date{}, row[4])
	assert.Equal(t, pgtype.Date{Time: time.Date(2011, 1, 10, 0, 0, 0, 0, time.UTC), Valid: true}, row[5])
}
