package tables

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/silverload/internal/core"
	"github.com/JonMunkholm/silverload/internal/transform"
)

func init() {
	registerCustomers()
	registerProducts()
	registerSales()
}

var (
	customerColumns = []string{
		"cst_id", "cst_key", "cst_firstname", "cst_lastname",
		"cst_marital_status", "cst_gndr", "cst_create_date",
	}

	productColumns = []string{
		"prd_id", "cat_id", "prd_key", "prd_nm", "prd_cost",
		"prd_line", "prd_start_dt", "prd_end_dt",
	}

	salesColumns = []string{
		"sls_ord_num", "sls_prd_key", "sls_cust_id",
		"sls_order_dt", "sls_ship_dt", "sls_due_dt",
		"sls_sales", "sls_quantity", "sls_price",
	}
)

func registerCustomers() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "crm_cust_info",
			Group:    GroupCRM,
			Label:    "Customers",
			Sequence: 10,
			Columns:  customerColumns,
		},
		BuildRows: func(ctx context.Context, db core.DBTX, bc core.BuildContext) (core.BuildResult, error) {
			return buildRows(ctx, db, customerQuery(bc.BronzeSchema), transform.Customers, customerRow)
		},
	})
}

func customerQuery(schema string) string {
	return selectQuery(schema, "crm_cust_info",
		columnList(customerColumns...),
		"cst_id", "cst_create_date", "cst_key",
	)
}

func customerRow(c transform.Customer) []any {
	return []any{
		c.ID,
		c.Key,
		c.FirstName,
		c.LastName,
		c.MaritalStatus,
		c.Gender,
		c.CreateDate,
	}
}

func registerProducts() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "crm_prd_info",
			Group:    GroupCRM,
			Label:    "Products",
			Sequence: 20,
			Columns:  productColumns,
		},
		BuildRows: func(ctx context.Context, db core.DBTX, bc core.BuildContext) (core.BuildResult, error) {
			return buildRows(ctx, db, productQuery(bc.BronzeSchema), transform.Products, productRow)
		},
	})
}

func productQuery(schema string) string {
	return selectQuery(schema, "crm_prd_info",
		func(sb *sqlbuilder.SelectBuilder) []string {
			return []string{
				"prd_id",
				"prd_key",
				"prd_nm",
				sb.As("CAST(prd_cost AS NUMERIC)", "prd_cost"),
				"prd_line",
				sb.As("CAST(prd_start_dt AS DATE)", "prd_start_dt"),
			}
		},
		"prd_id", "prd_key", "prd_start_dt",
	)
}

func productRow(p transform.Product) []any {
	return []any{
		p.ID,
		p.CategoryID,
		p.Key,
		p.Name,
		transform.ToNumeric(decimal.NewNullDecimal(p.Cost)),
		p.Line,
		p.StartDate,
		p.EndDate,
	}
}

func registerSales() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "crm_sales_details",
			Group:    GroupCRM,
			Label:    "Sales Details",
			Sequence: 30,
			Columns:  salesColumns,
		},
		BuildRows: func(ctx context.Context, db core.DBTX, bc core.BuildContext) (core.BuildResult, error) {
			return buildRows(ctx, db, salesQuery(bc.BronzeSchema), transform.Sales, salesRow)
		},
	})
}

func salesQuery(schema string) string {
	return selectQuery(schema, "crm_sales_details",
		func(sb *sqlbuilder.SelectBuilder) []string {
			return []string{
				"sls_ord_num",
				"sls_prd_key",
				"sls_cust_id",
				sb.As("CAST(sls_order_dt AS TEXT)", "sls_order_dt"),
				sb.As("CAST(sls_ship_dt AS TEXT)", "sls_ship_dt"),
				sb.As("CAST(sls_due_dt AS TEXT)", "sls_due_dt"),
				sb.As("CAST(sls_sales AS NUMERIC)", "sls_sales"),
				"sls_quantity",
				sb.As("CAST(sls_price AS NUMERIC)", "sls_price"),
			}
		},
		"sls_ord_num", "sls_prd_key", "sls_cust_id",
	)
}

func salesRow(s transform.Sale) []any {
	return []any{
		s.OrderNumber,
		s.ProductKey,
		s.CustomerID,
		s.OrderDate,
		s.ShipDate,
		s.DueDate,
		transform.ToNumeric(s.Sales),
		s.Quantity,
		transform.ToNumeric(s.Price),
	}
}
