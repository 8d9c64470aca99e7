package domain

// RoomType is the category of a room
type RoomType string

const (
	RoomTypeSingle RoomType = "Single"
	RoomTypeDouble RoomType = "Double"
	RoomTypeSuite  RoomType = "Suite"
)

// IsValid checks if the type is a known RoomType
func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite:
		return true
	}
	return false
}

// Room is a bookable room in the catalog
type Room struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        RoomType `json:"type"`
	Price       float64  `json:"price"` // per night
	Capacity    int      `json:"capacity"`
	Available   bool     `json:"available"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

// Clone returns a deep copy
func (r *Room) Clone() *Room {
	c := *r
	c.Amenities = append([]string(nil), r.Amenities...)
	c.Images = append([]string(nil), r.Images...)
	return &c
}

// SortOrder orders rooms by price
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
)

// RoomQuery filters, sorts and pages the catalog. A zero MinPrice or
// MaxPrice means unbounded.
type RoomQuery struct {
	Types    []RoomType
	MinPrice float64
	MaxPrice float64
	Sort     SortOrder
	Page     int
	PageSize int
}

// Validate enforces positive prices, max >= min and known types
func (q *RoomQuery) Validate() error {
	if q.MinPrice < 0 || (q.MinPrice != 0 && q.MinPrice < 1) {
		return ErrInvalidRoomQuery
	}
	if q.MaxPrice < 0 || (q.MaxPrice != 0 && q.MaxPrice < 1) {
		return ErrInvalidRoomQuery
	}
	if q.MinPrice > 0 && q.MaxPrice > 0 && q.MaxPrice < q.MinPrice {
		return ErrInvalidRoomQuery
	}
	for _, t := range q.Types {
		if !t.IsValid() {
			return ErrInvalidRoomQuery
		}
	}
	switch q.Sort {
	case SortNone, SortPriceAsc, SortPriceDesc:
	default:
		return ErrInvalidRoomQuery
	}
	if q.Page < 0 || q.PageSize < 0 {
		return ErrInvalidRoomQuery
	}
	return nil
}

// Matches reports whether room passes the type and price filters
func (q *RoomQuery) Matches(room *Room) bool {
	if len(q.Types) > 0 {
		found := false
		for _, t := range q.Types {
			if room.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.MinPrice > 0 && room.Price < q.MinPrice {
		return false
	}
	if q.MaxPrice > 0 && room.Price > q.MaxPrice {
		return false
	}
	return true
}
