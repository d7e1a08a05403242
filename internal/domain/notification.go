package domain

// NotificationMessage 投递到通知队列的消息，消费端负责实际发送
type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const (
	NotificationTypeAccountCreated      = "account_created"
	NotificationTypeHardRequestDecided  = "hard_request_decided"
	NotificationTypeSwapRequestIncoming = "swap_request_incoming"
	NotificationTypeSwapRequestDecided  = "swap_request_decided"
)

type AccountCreatedData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type HardRequestDecidedData struct {
	FullName string `json:"fullName"`
	Date     string `json:"date"`
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

type SwapRequestIncomingData struct {
	RequesterName string `json:"requesterName"`
	TargetName    string `json:"targetName"`
	RequesterDate string `json:"requesterDate"`
	TargetDate    string `json:"targetDate"`
}

type SwapRequestDecidedData struct {
	RequesterName string `json:"requesterName"`
	TargetName    string `json:"targetName"`
	Approved      bool   `json:"approved"`
	Reason        string `json:"reason,omitempty"`
}
