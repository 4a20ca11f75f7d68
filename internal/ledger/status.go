package ledger

// DeriveStatus computes the availability status from stock levels.
//
// The mapping is total over all integer inputs:
//   - stock <= 0            -> unavailable
//   - 0 < stock <= minStock -> low-stock
//   - otherwise             -> available
//
// Callers must never store a caller-supplied status; every mutation that
// touches Stock or MinStock recomputes through this function.
func DeriveStatus(stock, minStock int) ProductStatus {
	switch {
	case stock <= 0:
		return ProductUnavailable
	case stock <= minStock:
		return ProductLowStock
	default:
		return ProductAvailable
	}
}
