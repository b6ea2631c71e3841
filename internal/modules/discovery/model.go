package discovery

// DiscoverRequest is the POST /search body. Count caps how many web hits
// the search call asks for. Raw skips scraping and returns the hits as-is.
// Store imports the scraped listings into the product catalog, which needs
// a Category to file them under.
type DiscoverRequest struct {
	Query    string `json:"query" validate:"required"`
	Count    int    `json:"count"`
	Raw      bool   `json:"raw"`
	Store    bool   `json:"store"`
	Category string `json:"category"`
}

// WebResult is a single hit returned by the web-search collaborator.
type WebResult struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Snippets    []string `json:"snippets,omitempty"`
}

// ScrapedProduct is one listing extracted from a retail page. Only Title is
// guaranteed; Price, Image and URL carry the page's raw values when present.
type ScrapedProduct struct {
	Title string `json:"title"`
	Price string `json:"price,omitempty"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url,omitempty"`
}

// DiscoverResponse echoes the query and reports what the pipeline did.
// SourceURL stays null until a page was actually scraped. RawResults is
// null unless raw mode was requested. Stored is set only when an import ran.
type DiscoverResponse struct {
	Query      string           `json:"query"`
	SourceURL  *string          `json:"source_url"`
	Products   []ScrapedProduct `json:"products"`
	Raw        bool             `json:"raw"`
	RawResults []WebResult      `json:"raw_results"`
	Stored     *int             `json:"stored,omitempty"`
}
