package omdb

// PageSize is the number of results OMDb returns per search page. The API
// does not allow changing it.
const PageSize = 10

// PosterNotAvailable is the sentinel OMDb uses when no poster exists.
const PosterNotAvailable = "N/A"

// SearchItem is a single row of a search response.
type SearchItem struct {
	ID     string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// HasPoster reports whether the item carries a real poster URL.
func (s SearchItem) HasPoster() bool {
	return s.Poster != "" && s.Poster != PosterNotAvailable
}

// SearchResult is one page of search results plus the catalog's total count.
type SearchResult struct {
	Items      []SearchItem
	TotalCount int
}

// Rating is a single (source, value) rating pair, e.g.
// ("Rotten Tomatoes", "81%").
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Detail is the full record for a single title.
type Detail struct {
	ID       string   `json:"imdbID"`
	Title    string   `json:"Title"`
	Year     string   `json:"Year"`
	Rated    string   `json:"Rated"`
	Runtime  string   `json:"Runtime"`
	Genre    string   `json:"Genre"`
	Director string   `json:"Director"`
	Actors   string   `json:"Actors"`
	Plot     string   `json:"Plot"`
	Poster   string   `json:"Poster"`
	Ratings  []Rating `json:"Ratings"`
}

// HasPoster reports whether the record carries a real poster URL.
func (d *Detail) HasPoster() bool {
	return d.Poster != "" && d.Poster != PosterNotAvailable
}

// searchResponse is the raw wire shape of a search-mode response.
// totalResults arrives as a string.
type searchResponse struct {
	Search       []SearchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
	Response     string       `json:"Response"`
	Error        string       `json:"Error"`
}

// detailResponse is the raw wire shape of a detail-mode response.
type detailResponse struct {
	Detail
	Response string `json:"Response"`
	Error    string `json:"Error"`
}
