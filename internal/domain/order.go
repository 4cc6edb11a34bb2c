package domain

// Entry fee charged for every submission. Amount is in the smallest currency
// unit (paise). Never taken from the client.
const (
	EntryFeeAmount   int64 = 10000
	EntryFeeCurrency       = "INR"
)

// Order is a gateway-owned payment order. It is not persisted locally and
// only exists to correlate the later signature check.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}
