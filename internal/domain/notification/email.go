package notification

import (
	"fmt"
	"html"
	"strings"
)

// Subject returns the reminder email subject for the given number of
// upcoming payments.
func Subject(count int) string {
	return fmt.Sprintf("Subscription Reminders - %d upcoming payments", count)
}

// BuildReminderEmail renders the HTML body listing each upcoming payment.
// Merchant names come from bank data and are escaped before rendering.
func BuildReminderEmail(items []ReminderItem) string {
	var b strings.Builder

	b.WriteString("<html><body>")
	b.WriteString("<h2>Upcoming Subscription Payments</h2>")
	b.WriteString("<p>You have the following subscription payments coming up:</p>")
	b.WriteString("<ul>")
	for _, item := range items {
		b.WriteString(fmt.Sprintf(
			"<li><strong>%s</strong>: %s %.2f (reminder set for %d days before)</li>",
			html.EscapeString(item.MerchantName), item.Currency, item.Amount, item.ReminderDays,
		))
	}
	b.WriteString("</ul>")
	b.WriteString("<p>Review your subscriptions to avoid unwanted charges.</p>")
	b.WriteString("</body></html>")

	return b.String()
}
