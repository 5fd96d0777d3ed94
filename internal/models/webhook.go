package models

const (
	ClerkEventUserCreated = "user.created"
	ClerkEventUserDeleted = "user.deleted"
)

// ClerkWebhookEvent is the envelope the identity provider posts to us.
type ClerkWebhookEvent struct {
	Type string           `json:"type"`
	Data ClerkWebhookData `json:"data"`
}

type ClerkWebhookData struct {
	ID             string              `json:"id"`
	EmailAddresses []ClerkEmailAddress `json:"email_addresses,omitempty"`
	CreatedAt      int64               `json:"created_at,omitempty"`
	Deleted        bool                `json:"deleted,omitempty"`
}

type ClerkEmailAddress struct {
	EmailAddress string `json:"email_address"`
}

type ClerkWebhookResult struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
}

// PurchaseCompleted is a finished checkout, already verified and decoded
// from the payment provider's event.
type PurchaseCompleted struct {
	SessionID   string
	ClerkUserID string
	CustomerID  string
	PackageType PackageType
	Quantity    int
}
