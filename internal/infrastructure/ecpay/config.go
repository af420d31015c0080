package ecpay

import "errors"

const (
	productionCheckoutURL = "https://payment.ecpay.com.tw/Cashier/AioCheckOut/V5"
	sandboxCheckoutURL    = "https://payment-stage.ecpay.com.tw/Cashier/AioCheckOut/V5"
)

// Config contains ECPay AIO merchant credentials and endpoint settings
type Config struct {
	// MerchantID is the ECPay merchant identifier
	MerchantID string
	// HashKey and HashIV are the merchant's CheckMacValue secrets
	HashKey string
	HashIV  string
	// ReturnURL receives the server-to-server payment result callback
	ReturnURL string
	// ClientBackURL is where the customer's browser returns after paying
	ClientBackURL string
	// ChoosePayment restricts the payment methods shown at checkout
	ChoosePayment string
	// IsSandbox selects the staging cashier endpoint
	IsSandbox bool
}

// Errors for configuration validation
var (
	ErrMissingMerchantID = errors.New("ecpay: missing merchant ID")
	ErrMissingHashKey    = errors.New("ecpay: missing hash key")
	ErrMissingHashIV     = errors.New("ecpay: missing hash IV")
	ErrMissingReturnURL  = errors.New("ecpay: missing return URL")
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MerchantID == "" {
		return ErrMissingMerchantID
	}
	if c.HashKey == "" {
		return ErrMissingHashKey
	}
	if c.HashIV == "" {
		return ErrMissingHashIV
	}
	if c.ReturnURL == "" {
		return ErrMissingReturnURL
	}
	if c.ChoosePayment == "" {
		c.ChoosePayment = "ALL"
	}
	return nil
}

// CheckoutURL returns the cashier endpoint for the configured environment
func (c *Config) CheckoutURL() string {
	if c.IsSandbox {
		return sandboxCheckoutURL
	}
	return productionCheckoutURL
}
