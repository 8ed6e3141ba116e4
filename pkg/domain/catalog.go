package domain

// Seat is a reading-room seat offered for reservation.
type Seat struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
}

// DisplayName joins location and name the way confirmation prompts and
// receipts show them, e.g. "제1열람실-3, 좌석 233".
func (s Seat) DisplayName() string {
	return s.Location + ", " + s.Name
}

// Biblio is a bibliographic record. It owns its Items by reference only.
type Biblio struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	Author           string   `json:"author" yaml:"author"`
	Publication      string   `json:"publication" yaml:"publication"`
	Description      string   `json:"description" yaml:"description"`
	ItemIDs          []string `json:"item_ids,omitempty" yaml:"item_ids,omitempty"`
	RelatedBiblioIDs []string `json:"related_biblio_ids,omitempty" yaml:"related_biblio_ids,omitempty"`
}

// Item is a physical copy of a Biblio.
type Item struct {
	ID        string `json:"id" yaml:"id"`
	BiblioID  string `json:"biblio_id" yaml:"biblio_id"`
	Title     string `json:"title" yaml:"title"`
	Available bool   `json:"available" yaml:"available"`
	Location  string `json:"location" yaml:"location"`
}

// UnavailableSuggestion is a Biblio the library holds no copy of, paired with
// the pitch offered to the user for a purchase request.
type UnavailableSuggestion struct {
	Biblio  Biblio `json:"biblio"`
	Message string `json:"message"`
}

// SearchResult is what a gateway returns for a book query. Matches are
// already ranked; callers must not re-sort them.
type SearchResult struct {
	Matches                []Biblio                `json:"matches"`
	UnavailableSuggestions []UnavailableSuggestion `json:"unavailable_suggestions,omitempty"`
}
