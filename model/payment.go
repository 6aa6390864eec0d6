package model

type PaymentMethod string

const (
	PaymentCreditCard    PaymentMethod = "CREDIT_CARD"
	PaymentDigitalWallet PaymentMethod = "DIGITAL_WALLET"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentSuccessful PaymentStatus = "SUCCESSFUL"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

type Payment struct {
	Id            FlexID        `json:"id"`
	BookingId     FlexID        `json:"bookingId"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     Timestamp     `json:"createdAt"`
	ExpiryTime    Timestamp     `json:"expiryTime"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}

// CardDetails are collected for CREDIT_CARD payments and never sent.
type CardDetails struct {
	Number string `validate:"required,card_number"`
	Holder string `validate:"required,max=100"`
	Expiry string `validate:"required,card_expiry"`
	CVV    string `validate:"required,min=3,max=4,numeric"`
}

type WalletProvider string

const (
	WalletTNG    WalletProvider = "TNG"
	WalletGrab   WalletProvider = "GRAB"
	WalletBoost  WalletProvider = "BOOST"
	WalletShopee WalletProvider = "SHOPEE"
)

var WalletProviders = []WalletProvider{WalletTNG, WalletGrab, WalletBoost, WalletShopee}

type WalletDetails struct {
	Provider WalletProvider `validate:"required,oneof=TNG GRAB BOOST SHOPEE"`
}
