package items

import "github.com/shopspring/decimal"

type CreateItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Category    *string          `json:"category"`
	Unit        string           `json:"unit" binding:"required"`
	MinStock    *int             `json:"min_stock_level"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit"`
	Supplier    *string          `json:"supplier"`
}

type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Unit        *string          `json:"unit"`
	MinStock    *int             `json:"min_stock_level"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit"`
	Supplier    *string          `json:"supplier"`
}
