package ses

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"billflow/internal/port"
)

func TestReminderBodies(t *testing.T) {
	r := port.PaymentReminder{
		ToEmail:     "asha@example.com",
		ToName:      "Asha <Stores>",
		CompanyName: "ABC Trading Company",
		Balance:     "₹1500.00",
		LedgerURL:   "https://bills.example/customer/c1/ledger",
	}

	text := reminderText(r)
	assert.Contains(t, text, "Dear Asha <Stores>,")
	assert.Contains(t, text, "₹1500.00")
	assert.Contains(t, text, r.LedgerURL)

	body := reminderHTML(r)
	assert.Contains(t, body, "Dear Asha &lt;Stores&gt;,")
	assert.Contains(t, body, `href="https://bills.example/customer/c1/ledger"`)
	assert.NotContains(t, body, "<Stores>")
}
