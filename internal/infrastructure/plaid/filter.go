package plaid

import "strings"

const (
	categoryCreditCardPayment = "LOAN_PAYMENTS_CREDIT_CARD_PAYMENT"
	categoryAccountTransfer   = "TRANSFER_OUT_ACCOUNT_TRANSFER"
)

// FilterSubscriptionStreams drops outflow streams that are not subscriptions:
// credit card payments, transfers between the user's own accounts, and ATM
// withdrawals. Matching is by Plaid's detailed category first, with a
// description fallback for institutions that tag these poorly. Streams that
// match nothing are kept.
func FilterSubscriptionStreams(streams []TransactionStream) []TransactionStream {
	filtered := make([]TransactionStream, 0, len(streams))
	for _, stream := range streams {
		if isSubscriptionStream(stream) {
			filtered = append(filtered, stream)
		}
	}
	return filtered
}

func isSubscriptionStream(stream TransactionStream) bool {
	desc := strings.ToLower(stream.Description)
	detailed := stream.PersonalFinanceCategory.Detailed

	if detailed == categoryCreditCardPayment {
		return false
	}
	if strings.Contains(desc, "credit card") || strings.Contains(desc, "chase card") {
		return false
	}

	if detailed == categoryAccountTransfer {
		return false
	}
	if strings.Contains(desc, "transfer") || strings.Contains(desc, "sav") {
		return false
	}

	if strings.Contains(desc, "atm") {
		return false
	}

	return true
}
