package aggregation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quarterly-sales-report/internal/catalog"
	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
)

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		Departments: []catalog.Department{
			{Name: "Footwear", Abbreviation: "FOOT"},
			{Name: "Accessories", Abbreviation: "ACCS"},
			{Name: "Outerwear", Abbreviation: "OUTR"},
		},
		Sites:  []string{"US1", "UK1"},
		Sizes:  []string{"S", "M", "L"},
		Colors: []string{"BK", "RD"},
	}
}

func testCodec() *productid.Codec {
	return productid.NewCodec(testCatalog())
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func record(month int, department, productID string, qty int, price, cost string) types.SalesRecord {
	return types.SalesRecord{
		Date:           time.Date(2023, time.Month(month), 15, 0, 0, 0, 0, time.UTC),
		Department:     department,
		ProductID:      productID,
		Quantity:       qty,
		UnitPrice:      d(price),
		BaseCost:       d(cost),
		VolumeDiscount: qty / 10,
	}
}
