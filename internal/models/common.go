// internal/models/common.go
package models

// Enums

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusPreOrder   StockStatus = "pre_order"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

type ProductType string

const (
	ProductTypeMachinery  ProductType = "machinery"
	ProductTypeAttachment ProductType = "attachment"
	ProductTypeSparePart  ProductType = "spare_part"
)
