package enum

// PaymentMode is how money moved in or out of the church
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "Cash"
	PaymentModeMpesa        PaymentMode = "Mpesa"
	PaymentModeBankTransfer PaymentMode = "Bank Transfer"
	PaymentModeCheque       PaymentMode = "Cheque"
	PaymentModeCreditCard   PaymentMode = "Credit Card"
	PaymentModeOther        PaymentMode = "Other"
)

// Modes accepted per document type
var (
	ContributionPaymentModes = []PaymentMode{PaymentModeCash, PaymentModeMpesa, PaymentModeBankTransfer, PaymentModeOther}
	ExpensePaymentModes      = []PaymentMode{PaymentModeCash, PaymentModeCheque, PaymentModeBankTransfer, PaymentModeMpesa, PaymentModeCreditCard, PaymentModeOther}
	RemittancePaymentModes   = []PaymentMode{PaymentModeBankTransfer, PaymentModeCheque, PaymentModeCash, PaymentModeOther}
)

// In reports whether m is one of allowed
func (m PaymentMode) In(allowed []PaymentMode) bool {
	for _, a := range allowed {
		if m == a {
			return true
		}
	}
	return false
}
