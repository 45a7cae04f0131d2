package notification

import (
	"strings"
	"testing"
)

func TestSubject(t *testing.T) {
	if got := Subject(2); got != "Subscription Reminders - 2 upcoming payments" {
		t.Errorf("Subject(2) = %q", got)
	}
}

func TestBuildReminderEmail(t *testing.T) {
	items := []ReminderItem{
		{MerchantName: "Netflix", Amount: 15.99, Currency: "USD", ReminderDays: 3},
		{MerchantName: "Spotify", Amount: 9.99, Currency: "USD", ReminderDays: 5},
	}

	body := BuildReminderEmail(items)

	for _, want := range []string{
		"<strong>Netflix</strong>: USD 15.99 (reminder set for 3 days before)",
		"<strong>Spotify</strong>: USD 9.99 (reminder set for 5 days before)",
		"Upcoming Subscription Payments",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("email body missing %q\nbody: %s", want, body)
		}
	}
}

func TestBuildReminderEmail_EscapesMerchantName(t *testing.T) {
	items := []ReminderItem{
		{MerchantName: "<script>alert(1)</script>", Amount: 1, Currency: "USD", ReminderDays: 3},
	}

	body := BuildReminderEmail(items)

	if strings.Contains(body, "<script>") {
		t.Error("merchant name was not escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped merchant name in body")
	}
}

func TestPlaceholderResolver(t *testing.T) {
	address, ok := PlaceholderResolver{}.ResolveUserEmail(nil, "abc-123")
	if !ok {
		t.Fatal("PlaceholderResolver should always resolve")
	}
	if address != "user-abc-123@example.com" {
		t.Errorf("address = %q, want user-abc-123@example.com", address)
	}
}
