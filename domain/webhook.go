package domain

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
)

type WebhookEvent struct {
	Id   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			Id       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (e WebhookEvent) TicketId() string {
	return e.Data.Object.Metadata["ticketId"]
}

type WebhookAck struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
}
