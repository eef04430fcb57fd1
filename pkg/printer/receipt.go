package printer

// Receipt is a contribution receipt ready for printing. Amounts are
// pre-formatted so the printer stays free of money types.
type Receipt struct {
	ChurchName    string
	ChurchAddress string
	ReceiptNo     string
	Date          string
	MemberName    string
	PaymentMode   string
	Lines         []ReceiptLine
	Total         string
	Footer        string
}

// ReceiptLine is one contribution line.
type ReceiptLine struct {
	Label  string
	Amount string
}

// FormatReceipt renders r as ESC/POS bytes for a printer of the given width.
func FormatReceipt(r *Receipt, width int) []byte {
	d := NewDocument(width)

	d.Align(AlignCenter).Bold(true).Large(true).Line(r.ChurchName).Large(false).Bold(false)
	if r.ChurchAddress != "" {
		d.Line(r.ChurchAddress)
	}
	d.Line("OFFICIAL RECEIPT").Align(AlignLeft).Rule()

	d.Pair("Receipt:", r.ReceiptNo)
	d.Pair("Date:", r.Date)
	d.Pair("Member:", r.MemberName)
	if r.PaymentMode != "" {
		d.Pair("Paid via:", r.PaymentMode)
	}
	d.Rule()

	for _, l := range r.Lines {
		d.Pair(l.Label, l.Amount)
	}
	d.Rule().Bold(true).Pair("TOTAL", r.Total).Bold(false)

	footer := r.Footer
	if footer == "" {
		footer = "God bless you!"
	}
	d.Feed(1).Align(AlignCenter).Line(footer).Feed(3).Cut()

	return d.Bytes()
}
