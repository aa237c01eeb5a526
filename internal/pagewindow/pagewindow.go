package pagewindow

import "strconv"

// EllipsisText is how an elided run of pages is rendered.
const EllipsisText = "…"

// Label is one entry of the pagination control: a page number or an ellipsis.
type Label struct {
	Page     int
	Ellipsis bool
}

// String renders the label for display.
func (l Label) String() string {
	if l.Ellipsis {
		return EllipsisText
	}
	return strconv.Itoa(l.Page)
}

// Window is the result of Compute. Start and End bound the contiguous run of
// pages around the current page; Labels adds the first/last page and ellipses.
type Window struct {
	TotalPages int
	Start      int
	End        int
	Labels     []Label
}

// Suppressed reports whether the pagination control should not be shown at all.
func (w Window) Suppressed() bool {
	return w.TotalPages <= 1
}

// Pages returns the numeric labels in order.
func (w Window) Pages() []int {
	pages := make([]int, 0, len(w.Labels))
	for _, l := range w.Labels {
		if !l.Ellipsis {
			pages = append(pages, l.Page)
		}
	}
	return pages
}

// TotalPages returns ceil(totalItems / itemsPerPage).
func TotalPages(totalItems, itemsPerPage int) int {
	if totalItems <= 0 {
		return 0
	}
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}

// Compute builds the page labels for a pagination control.
//
// The window around currentPage holds min(maxVisible, totalPages) pages. When the
// window does not start at page 1, page 1 is shown first, followed by an ellipsis
// if any page lies between them. The tail is handled symmetrically.
// currentPage is not clamped against totalPages; callers clamp after each fetch.
func Compute(totalItems, itemsPerPage, currentPage, maxVisible int) Window {
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if maxVisible < 1 {
		maxVisible = 1
	}

	totalPages := TotalPages(totalItems, itemsPerPage)
	if totalPages == 0 {
		return Window{}
	}

	half := maxVisible / 2
	start := max(1, currentPage-half)
	end := min(totalPages, currentPage+half)

	// Both pins test currentPage itself, not the computed start or end.
	if currentPage <= half {
		end = min(maxVisible, totalPages)
	}
	if currentPage+half >= totalPages {
		start = max(1, totalPages-maxVisible+1)
	}
	// An even maxVisible leaves one page too many in an unpinned window.
	if end-start+1 > maxVisible {
		end = start + maxVisible - 1
	}

	labels := make([]Label, 0, end-start+5)
	if start > 1 {
		labels = append(labels, Label{Page: 1})
		if start > 2 {
			labels = append(labels, Label{Ellipsis: true})
		}
	}
	for p := start; p <= end; p++ {
		labels = append(labels, Label{Page: p})
	}
	if end < totalPages {
		if end < totalPages-1 {
			labels = append(labels, Label{Ellipsis: true})
		}
		labels = append(labels, Label{Page: totalPages})
	}

	return Window{TotalPages: totalPages, Start: start, End: end, Labels: labels}
}
