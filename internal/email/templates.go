package email

import (
	"fmt"
	"html"
	"strings"
)

// OrderLine is one order line for email rendering.
type OrderLine struct {
	ProductName    string
	Quantity       int
	TotalCost      float64
	ShippingStatus string
}

// BuildOrderConfirmationBody builds the HTML body for an order
// confirmation email.
func BuildOrderConfirmationBody(customerName, orderID string, total float64, items []OrderLine) string {
	var rows strings.Builder
	for _, item := range items {
		rows.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 10px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">$%.2f</td>
			</tr>`,
			html.EscapeString(item.ProductName),
			item.Quantity,
			html.EscapeString(item.ShippingStatus),
			item.TotalCost,
		))
	}

	greeting := "Hello,"
	if customerName != "" {
		greeting = fmt.Sprintf("Hello %s,", html.EscapeString(customerName))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 22px;">Thank you for your order</h1>
	<p>%s</p>
	<p>We received your order and it is now being prepared.</p>

	<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
		<p style="margin: 0; font-size: 13px; color: #666;">Order number</p>
		<p style="margin: 5px 0 0 0; font-size: 17px; font-weight: bold; font-family: monospace;">%s</p>
	</div>

	<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
		<thead>
			<tr style="background: #f8f9fa;">
				<th style="padding: 10px; text-align: left;">Product</th>
				<th style="padding: 10px; text-align: center;">Qty</th>
				<th style="padding: 10px; text-align: center;">Shipping</th>
				<th style="padding: 10px; text-align: right;">Total</th>
			</tr>
		</thead>
		<tbody>
			%s
		</tbody>
	</table>

	<div style="text-align: right; padding: 15px; background: #f8f9fa; border-radius: 5px;">
		<span style="font-size: 13px; color: #666;">Order total</span>
		<span style="font-size: 20px; font-weight: bold; margin-left: 10px;">$%.2f</span>
	</div>

	<p style="font-size: 12px; color: #999; margin-top: 30px;">
		This is an automated message; replies to this address are not monitored.
	</p>
</body>
</html>`,
		greeting,
		html.EscapeString(orderID),
		rows.String(),
		total,
	)
}
