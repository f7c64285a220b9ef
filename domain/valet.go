package domain

const (
	ValetStatusIntake            = "intake"
	ValetStatusParked            = "parked"
	ValetStatusServiceInProgress = "service_in_progress"
	ValetStatusReady             = "ready"
	ValetStatusRetrieved         = "retrieved"
	ValetStatusPaid              = "paid"

	ValetServiceBasicWash  = "basic_wash"
	ValetServiceFullDetail = "full_detail"
	ValetServiceEvCharging = "ev_charging"
)

type ValetTaskPaid struct {
	Id     string `json:"id"`
	Status string `json:"status"`
	PaidAt int64  `json:"paidAt"`
}

// Exchange is a completed upstream call seen by a proxy observer.
type Exchange struct {
	PathParams   map[string]string
	StatusCode   int
	RequestBody  []byte
	ResponseBody []byte
}
