package models

import (
	"time"
)

// InventoryRecord is the model for the 'inventory_records' table.
// Nothing decrements it; it is read-only bookkeeping for now.
type InventoryRecord struct {
	ID              int64      `json:"id" db:"id"`
	ProductID       int64      `json:"productId" db:"product_id"`
	QuantityInStock int        `json:"quantityInStock" db:"quantity_in_stock"`
	ReorderLevel    int        `json:"reorderLevel" db:"reorder_level"`
	SupplierName    *string    `json:"supplierName,omitempty" db:"supplier_name"`
	RestockDate     *time.Time `json:"restockDate,omitempty" db:"restock_date"`
}

// NeedsReorder reports whether stock has fallen to the reorder level.
func (r InventoryRecord) NeedsReorder() bool {
	return r.QuantityInStock <= r.ReorderLevel
}
