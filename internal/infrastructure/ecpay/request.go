package ecpay

import (
	"time"

	"github.com/shopspring/decimal"
)

const tradeDateLayout = "2006/01/02 15:04:05"

// taipeiZone is the gateway's reference timezone for MerchantTradeDate
var taipeiZone = time.FixedZone("Asia/Taipei", 8*60*60)

// CheckoutRequest carries the merchant-side fields of an AIO checkout
type CheckoutRequest struct {
	TradeNo     string
	TotalAmount decimal.Decimal
	TradeDesc   string
	ItemName    string
	CustomerRef string
	RelatedIDs  string
	TradeDate   time.Time
}

// Redirect is a ready-to-render cashier form: the endpoint to POST to and
// the signed field set.
type Redirect struct {
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

// BuildRedirect assembles and signs the cashier form for one checkout. The
// customer phone and related record IDs ride along in the custom fields so
// the callback can be matched without session state.
func (c *Config) BuildRedirect(req CheckoutRequest) Redirect {
	params := map[string]string{
		"MerchantID":        c.MerchantID,
		"MerchantTradeNo":   req.TradeNo,
		"MerchantTradeDate": req.TradeDate.In(taipeiZone).Format(tradeDateLayout),
		"PaymentType":       "aio",
		"TotalAmount":       req.TotalAmount.Round(0).String(),
		"TradeDesc":         req.TradeDesc,
		"ItemName":          req.ItemName,
		"ReturnURL":         c.ReturnURL,
		"ChoosePayment":     c.ChoosePayment,
		"EncryptType":       "1",
		"CustomField1":      req.CustomerRef,
		"CustomField2":      req.RelatedIDs,
	}
	if c.ClientBackURL != "" {
		params["ClientBackURL"] = c.ClientBackURL
	}
	return Redirect{
		Action: c.CheckoutURL(),
		Fields: c.Sign(params),
	}
}
