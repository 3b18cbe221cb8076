package models

// User is a staff account stored in the application config file.
// PasswordHash is a bcrypt hash and is never serialized to API clients.
type User struct {
	Username          string  `json:"username"`
	PasswordHash      string  `json:"password_hash"`
	IsAdmin           bool    `json:"is_admin"`
	Status            string  `json:"status"`
	AssignedCampaigns []int64 `json:"assigned_campaigns"`
	ProcessedOrders   int     `json:"processed_orders"`
	Balance           float64 `json:"balance"`
}

// Profile returns the client-facing view of the user, without the
// password hash.
func (u *User) Profile() map[string]interface{} {
	campaigns := u.AssignedCampaigns
	if campaigns == nil {
		campaigns = []int64{}
	}
	return map[string]interface{}{
		"username":           u.Username,
		"is_admin":           u.IsAdmin,
		"status":             u.Status,
		"assigned_campaigns": campaigns,
		"processed_orders":   u.ProcessedOrders,
		"balance":            u.Balance,
	}
}

// IsAssigned reports whether the user may work on the given campaign.
func (u *User) IsAssigned(campaignID int64) bool {
	for _, id := range u.AssignedCampaigns {
		if id == campaignID {
			return true
		}
	}
	return false
}

// Campaign is a marketplace seller account with its own partner API token.
type Campaign struct {
	ID    int64  `json:"campaign_id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// OrderLineRecord is one order line prepared for the worker UI. It is
// rebuilt on every fetch and never persisted.
type OrderLineRecord struct {
	OrderID     string `json:"order_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Barcode     string `json:"barcode"`
	Quantity    int    `json:"quantity"`
	ImagePath   string `json:"image_path,omitempty"`
}

// Decision values accepted at the API boundary.
const (
	DecisionAccept = "yes"
	DecisionReject = "no"
	DecisionSkip   = "skip"
)

// Decision is a single worker verdict on one order.
type Decision struct {
	OrderID  string `json:"order_id" validate:"required"`
	Decision string `json:"decision" validate:"required,decision"`
}

// LastReport marks the most recent decision batch, persisted into the
// config file for the daily report job.
type LastReport struct {
	Date string `json:"date"`
	User string `json:"user"`
}

// UserStats is one row of the admin stats endpoint.
type UserStats struct {
	Username          string  `json:"username"`
	AssignedCampaigns []int64 `json:"assigned_campaigns"`
	ProcessedOrders   int     `json:"processed_orders"`
	Balance           float64 `json:"balance"`
}
