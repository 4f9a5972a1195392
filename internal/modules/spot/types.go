package spot

// NearbyQuery is the proximity request body. Lat/Lng are pointers so a
// missing field is distinguishable from 0.0 and can be rejected.
type NearbyQuery struct {
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Radius *float64 `json:"radius"`
}

// DefaultRadiusKm applies when the client omits the radius.
const DefaultRadiusKm = 5.0

// MaxNearbyResults caps the proximity scan. The cap counts accepted matches
// against the newest-first listing order, so the result is "the newest 100
// within radius", not the nearest 100.
const MaxNearbyResults = 100

// Summary is the spot shape the map client renders.
type Summary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Category string   `json:"category"`
	UserName string   `json:"user_name"`
	UserIcon *string  `json:"user_icon"`
	Date     string   `json:"date"`
	Comment  string   `json:"comment"`
	Tags     []string `json:"tags"`
	Images   []string `json:"images"`
}

// CreateInput carries the trimmed spot creation form fields. Tags holds the
// non-empty values of the tag1..tag5 slots.
type CreateInput struct {
	Title    string
	Comment  string
	Category string
	Lat      float64
	Lng      float64
	Tags     []string
}

// DefaultCategory applies when the form leaves the category blank.
const DefaultCategory = "sightseeing"

// TagSlots is the number of free-text tag fields on the creation form.
const TagSlots = 5
