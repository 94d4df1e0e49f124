package posts

// MaxPageButtons caps the numbered page controls.
const MaxPageButtons = 5

// TotalPages is ceil(total / pageSize). A non-positive page size or an empty
// collection has no pages.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// PageButtons lists the numbered controls for a collection of totalPages.
// Only the first MaxPageButtons pages get a button; later pages are reached
// with Next.
func PageButtons(totalPages int) []int {
	n := min(MaxPageButtons, totalPages)
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// InRange reports whether page is a valid target for navigation.
func InRange(page, totalPages int) bool {
	return page >= 1 && page <= totalPages
}
