package entity

import "github.com/shopspring/decimal"

// StockAdjustment variación de stock a aplicar sobre un producto (negativa en ventas, positiva en devoluciones).
type StockAdjustment struct {
	ProductID string
	Delta     decimal.Decimal
}

// MergeAdjustments agrupa por producto sumando los deltas. Conserva el orden de primera aparición.
func MergeAdjustments(in []StockAdjustment) []StockAdjustment {
	idx := make(map[string]int, len(in))
	out := make([]StockAdjustment, 0, len(in))
	for _, a := range in {
		if i, ok := idx[a.ProductID]; ok {
			out[i].Delta = out[i].Delta.Add(a.Delta)
			continue
		}
		idx[a.ProductID] = len(out)
		out = append(out, a)
	}
	return out
}
