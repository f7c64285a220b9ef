package domain

const (
	RoomGlobal              = "global"
	RoomInsiderAll          = "insider:all"
	RoomInsiderInterestFmt  = "insider:interest:%s"
	RoomInsiderLifestyleFmt = "insider:lifestyle:%s"

	EventHello            = "hello"
	EventInsiderSubscribe = "subscribe:insider"
	EventInsiderAck       = "insider:subscribed"
	EventValetTask        = "valet:task"
	EventVibeUpdate       = "vibe:update"
	EventPresenceVenue    = "presence:venue"
)

type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type InsiderSubscription struct {
	Interests  []string `json:"interests"`
	Lifestyles []string `json:"lifestyles"`
}

type InsiderSubscribed struct {
	Rooms []string `json:"rooms"`
}

type VibeUpdate struct {
	VenueId string  `json:"venueId"`
	Type    string  `json:"type"`
	Score   float64 `json:"score"`
	Ts      int64   `json:"ts"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Title   string  `json:"title"`
}
