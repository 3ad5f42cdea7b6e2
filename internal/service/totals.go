package service

// normalizeTotals applies the shared totals discipline for quotes and
// orders: subtotal is the sum over the current item set, a subtotal of zero
// forces the discount to zero, the discount never exceeds the subtotal, and
// total = subtotal - discount. Every item mutation funnels through this
// function; callers never write totals directly.
func normalizeTotals(itemTotals []float64, discount float64) (subtotal, normalizedDiscount, total float64) {
	for _, t := range itemTotals {
		subtotal += t
	}
	if discount < 0 {
		discount = 0
	}
	if subtotal == 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return subtotal, discount, subtotal - discount
}
