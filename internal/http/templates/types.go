package templates

// LayoutData is the chrome shared by every page.
type LayoutData struct {
	// PageTitle is prefixed to MetaTitle in the document title when set.
	PageTitle   string
	SiteTitle   string
	MetaTitle   string
	Description string
	BasePath    string
	FooterNote  string
}

// PostSummaryView is one entry of a post listing.
type PostSummaryView struct {
	Title       string
	URL         string
	Category    string
	CategoryURL string
	Date        string
	DateISO     string
	Summary     string
}

// PageLinkView is one numbered pagination link.
type PageLinkView struct {
	Number  int
	URL     string
	Current bool
}

// PaginationView drives the previous/next controls under a listing.
type PaginationView struct {
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
	Links      []PageLinkView
}

// CategoryLinkView is one entry of the categories sidebar.
type CategoryLinkView struct {
	Name   string
	URL    string
	Count  int64
	Active bool
}

// ListPageData bundles the home page, numbered pages and category listings.
type ListPageData struct {
	Layout       LayoutData
	Heading      string
	Posts        []PostSummaryView
	Pagination   PaginationView
	Categories   []CategoryLinkView
	EmptyMessage string
}

// PostPageData holds a single rendered post.
type PostPageData struct {
	Layout      LayoutData
	Title       string
	Date        string
	DateISO     string
	Category    string
	CategoryURL string
	HTML        string
	BackURL     string
}

// AboutPageData holds the author profile.
type AboutPageData struct {
	Layout       LayoutData
	Author       string
	ProfileImage string
	ProfileSize  int
	Intro        []string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	Layout      LayoutData
	StatusLabel string
	Message     string
}
