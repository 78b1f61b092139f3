package catalog

// Query describes a collection listing request: an optional category selector
// plus a 1-based page over a fixed page size.
type Query struct {
	Category string
	Page     int
	PageSize int
}

// Page is the result of a Search: one page of products plus the paging
// metadata the collection view renders.
type Page struct {
	Products   []Product
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Search filters the catalog by the query's category and returns the requested
// page. Page and PageSize below 1 are normalized to 1 and the page is clamped
// to the filtered result, so an out-of-range page yields an empty product list
// rather than a fault.
func (c *Catalog) Search(q Query) Page {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}

	filtered := c.FilterByCategory(q.Category)
	return Page{
		Products:   Paginate(filtered, q.Page, q.PageSize),
		Total:      len(filtered),
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: TotalPages(len(filtered), q.PageSize),
	}
}

// Paginate returns the subsequence [(page-1)*size, min(page*size, len)) of
// products. Requests past the last page return an empty slice. The page bound
// is checked by division so arbitrarily large page numbers cannot overflow
// the start offset.
func Paginate(products []Product, page, size int) []Product {
	if page < 1 || size < 1 {
		return nil
	}
	if page-1 > (len(products)-1)/size {
		return nil
	}
	start := (page - 1) * size
	if start >= len(products) {
		return nil
	}
	end := start + size
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// TotalPages returns the number of pages needed for total items at the given
// page size. An empty result has zero pages.
func TotalPages(total, size int) int {
	if total <= 0 || size < 1 {
		return 0
	}
	return (total + size - 1) / size
}
