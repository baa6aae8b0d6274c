package usecase

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// upiSchemes maps a client's preferred app to the deep-link scheme that opens it.
var upiSchemes = map[string]string{
	"gpay":    "tez://upi/pay",
	"phonepe": "phonepe://pay",
	"paytm":   "paytmmp://pay",
}

// UPILink builds a UPI intent URI. Unknown apps get the generic upi://pay scheme.
func UPILink(app, payeeID, payeeName string, amount decimal.Decimal, note string) string {
	base, ok := upiSchemes[strings.ToLower(strings.TrimSpace(app))]
	if !ok {
		base = "upi://pay"
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?pa=")
	b.WriteString(upiEscape(payeeID))
	b.WriteString("&pn=")
	b.WriteString(upiEscape(payeeName))
	b.WriteString("&am=")
	b.WriteString(amount.StringFixed(2))
	b.WriteString("&cu=INR&tn=")
	b.WriteString(upiEscape(note))
	return b.String()
}

// UPI apps expect %20 rather than '+' for spaces.
func upiEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
