package catalog

// Sort orders for entry listings.
const (
	SortTitle  = "title"
	SortNewest = "newest"
	SortViews  = "views"
)

// Filter specifies criteria for listing entries.
type Filter struct {
	Type     *EntryType
	Category *string // set membership on the entry's category tags
	Query    *string // case-insensitive substring match on title
	Language *string
	Sort     string // one of the Sort constants; defaults to SortTitle
	Limit    int    // 0 = no limit
	Offset   int
}
