package domain

const (
	CardTypeVenue   = "venue"
	CardTypeParking = "parking"
	CardTypeValet   = "valet"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Card struct {
	Id       string   `json:"id"`
	Type     string   `json:"type"`
	Title    any      `json:"title,omitempty"`
	Subtitle any      `json:"subtitle,omitempty"`
	Rating   any      `json:"rating,omitempty"`
	Distance any      `json:"distance,omitempty"`
	Price    any      `json:"price,omitempty"`
	Tags     any      `json:"tags,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Data     any      `json:"data"`
}

type CardsResponse struct {
	Items []Card `json:"items"`
}

type UpstreamItems struct {
	Items []map[string]any `json:"items"`
}
