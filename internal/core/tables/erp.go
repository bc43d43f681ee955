package tables

import (
	"context"
	"time"

	"github.com/JonMunkholm/silverload/internal/core"
	"github.com/JonMunkholm/silverload/internal/transform"
)

func init() {
	registerErpCustomers()
	registerErpLocations()
	registerErpCategories()
}

var (
	erpCustomerColumns = []string{"cid", "bdate", "gen"}
	locationColumns    = []string{"cid", "cntry"}
	categoryColumns    = []string{"id", "cat", "subcat", "maintenance"}
)

func registerErpCustomers() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "erp_cust_az12",
			Group:    GroupERP,
			Label:    "Customer Demographics",
			Sequence: 40,
			Columns:  erpCustomerColumns,
		},
		BuildRows: func(ctx context.Context, db core.DBTX, bc core.BuildContext) (core.BuildResult, error) {
			return buildRows(ctx, db, erpCustomerQuery(bc.BronzeSchema), erpCustomersAt(bc.Now), erpCustomerRow)
		},
	})
}

func erpCustomerQuery(schema string) string {
	return selectQuery(schema, "erp_cust_az12", columnList(erpCustomerColumns...), "cid", "bdate")
}

// erpCustomersAt binds the batch time into the customer rule.
func erpCustomersAt(now time.Time) func([]transform.RawErpCustomer) []transform.ErpCustomer {
	return func(rows []transform.RawErpCustomer) []transform.ErpCustomer {
		return transform.ErpCustomers(rows, now)
	}
}

func erpCustomerRow(c transform.ErpCustomer) []any {
	return []any{c.CID, c.BirthDate, c.Gender}
}

func registerErpLocations() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "erp_loc_a101",
			Group:    GroupERP,
			Label:    "Customer Locations",
			Sequence: 50,
			Columns:  locationColumns,
		},
		BuildRows: func(ctx context.Context, db core.DBTX, bc core.BuildContext) (core.BuildResult, error) {
			return buildRows(ctx, db, locationQuery(bc.BronzeSchema), transform.Locations, locationRow)
		},
	})
}

func locationQuery(schema string) string {
	return selectQuery(schema, "erp_loc_a101", columnList(locationColumns...), "cid", "cntry")
}

func locationRow(l transform.Location) []any {
	return []any{l.CID, l.Country}
}

func registerErpCategories() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "erp_px_cat_g1v2",
			Group:    GroupERP,
			Label:    "Product Categories",
			Sequence: 60,
			Columns:  categoryColumns,
		},
		BuildRows: func(ctx context.Context, db core.DBTX, bc core.BuildContext) (core.BuildResult, error) {
			return buildRows(ctx, db, categoryQuery(bc.BronzeSchema), transform.Categories, categoryRow)
		},
	})
}

func categoryQuery(schema string) string {
	return selectQuery(schema, "erp_px_cat_g1v2", columnList(categoryColumns...), "id")
}

func categoryRow(c transform.Category) []any {
	return []any{c.ID, c.Category, c.Subcategory, c.Maintenance}
}
