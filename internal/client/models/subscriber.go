package models

// Country is one entry of the calling-code selector.
type Country struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	CallingCode string `json:"calling_code"`
}

// Subscription is a customer's laundry plan.
type Subscription struct {
	ID        int64  `json:"id"`
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Remaining int    `json:"remaining_pickups"`
}

// Subscriber is the subscription-detail view of one customer.
type Subscriber struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Phone         string         `json:"phone"`
	Subscriptions []Subscription `json:"subscriptions"`
}
