package trivia

// Paginate slices items into the 1-based page of size pageSize. Pages past the
// end come back empty; Total is always len(items).
func Paginate(items []Question, page, pageSize int) (Page, error) {
	if page < 1 {
		return Page{}, invalidArgument("page", "must be a positive integer")
	}
	if pageSize < 1 {
		return Page{}, invalidArgument("page_size", "must be a positive integer")
	}

	total := len(items)
	// Compare in page units so huge page numbers cannot overflow the offset.
	if total == 0 || page-1 > (total-1)/pageSize {
		return Page{Questions: []Question{}, Total: total}, nil
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]Question, end-start)
	copy(out, items[start:end])
	return Page{Questions: out, Total: total}, nil
}
