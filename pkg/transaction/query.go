package transaction

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ValueCount is one bucket of a distinct-value histogram.
type ValueCount struct {
	Value int64 `json:"value"`
	Count int   `json:"count"`
}

// ProductRevenue is the summed revenue of one product.
type ProductRevenue struct {
	ProductID int64           `json:"product_id"`
	Revenue   decimal.Decimal `json:"revenue"`
}

func (p ProductRevenue) String() string {
	return fmt.Sprintf("%d: %s", p.ProductID, p.Revenue.StringFixed(2))
}

// ProductQuantity is the product_id/quantity projection of a row.
type ProductQuantity struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// TotalRevenue sums quantity*price over all rows. An empty table yields zero.
func (t *Table) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for i := 0; i < t.Len(); i++ {
		total = total.Add(t.Prices[i].Mul(decimal.NewFromInt(t.Quantities[i])))
	}
	return total
}

// UniqueUserCount returns the number of distinct user ids.
func (t *Table) UniqueUserCount() int {
	seen := make(map[int64]struct{}, t.Len())
	for _, u := range t.UserIDs {
		seen[u] = struct{}{}
	}
	return len(seen)
}

// MostPurchasedProduct returns the product with the largest total quantity.
// Ties go to the lowest product id.
func (t *Table) MostPurchasedProduct() (int64, error) {
	if t.Len() == 0 {
		return 0, fmt.Errorf("most purchased product: %w", ErrEmptyInput)
	}
	totals := make(map[int64]int64)
	for i, p := range t.ProductIDs {
		totals[p] += t.Quantities[i]
	}

	keys := sortedKeys(totals)
	best := keys[0]
	for _, p := range keys[1:] {
		if totals[p] > totals[best] {
			best = p
		}
	}
	return best, nil
}

// ValueCounts returns how many rows hold each distinct value of an integer
// column, ordered by value.
func (t *Table) ValueCounts(col Column) ([]ValueCount, error) {
	values, err := t.Int64Column(col)
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int)
	for _, v := range values {
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for _, v := range sortedKeys(counts) {
		out = append(out, ValueCount{Value: v, Count: counts[v]})
	}
	return out, nil
}

// UserTransactionCounts returns the number of transactions per user.
func (t *Table) UserTransactionCounts() []ValueCount {
	// user_id is always an integer column
	counts, _ := t.ValueCounts(ColUserID)
	return counts
}

// ProductQuantities projects the table onto its product_id and quantity columns.
func (t *Table) ProductQuantities() []ProductQuantity {
	out := make([]ProductQuantity, t.Len())
	for i := range out {
		out[i] = ProductQuantity{ProductID: t.ProductIDs[i], Quantity: t.Quantities[i]}
	}
	return out
}

// ProductRevenues returns the summed revenue per product, ordered by product id.
func (t *Table) ProductRevenues() []ProductRevenue {
	totals := make(map[int64]decimal.Decimal)
	for i, p := range t.ProductIDs {
		rev := t.Prices[i].Mul(decimal.NewFromInt(t.Quantities[i]))
		if cur, ok := totals[p]; ok {
			totals[p] = cur.Add(rev)
		} else {
			totals[p] = rev
		}
	}
	out := make([]ProductRevenue, 0, len(totals))
	for _, p := range sortedKeys(totals) {
		out = append(out, ProductRevenue{ProductID: p, Revenue: totals[p]})
	}
	return out
}

// TopProductsByRevenue returns the k highest-earning products in ascending
// order of revenue, so the best seller is last. Equal revenues keep product
// id order. With fewer than k products all of them are returned.
func (t *Table) TopProductsByRevenue(k int) []ProductRevenue {
	if k <= 0 {
		return nil
	}
	revs := t.ProductRevenues()
	slices.SortStableFunc(revs, func(a, b ProductRevenue) int {
		return a.Revenue.Cmp(b.Revenue)
	})
	if len(revs) > k {
		revs = revs[len(revs)-k:]
	}
	return revs
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
