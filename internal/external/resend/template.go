package resend

import (
	"TourPay/internal/domain/callback"
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<body style="background-color:#f6f9fc;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif">
<div style="background-color:#ffffff;margin:0 auto;padding:20px 0 48px;max-width:600px">
<h1 style="color:#333;font-size:24px;text-align:center">Booking Confirmed</h1>
<p style="padding:0 20px">Dear {{.CustomerName}},</p>
<p style="padding:0 20px">Thank you for your booking. Your payment has been successfully processed.</p>
<div style="padding:20px;background-color:#f9f9f9;margin:20px">
<p><strong>Order ID:</strong> {{.OrderID}}</p>
{{- if .TourName}}
<p><strong>Tour:</strong> {{.TourName}}</p>
{{- end}}
{{- if .TravelDate}}
<p><strong>Date:</strong> {{.TravelDate}}</p>
{{- end}}
{{- if .Guests}}
<p><strong>Guests:</strong> {{.Guests}}</p>
{{- end}}
<p><strong>Total Paid:</strong> {{.Amount}} {{.Currency}}</p>
{{- if .PaymentRef}}
<p><strong>Payment Ref:</strong> {{.PaymentRef}}</p>
{{- end}}
</div>
{{- if .Fallback}}
<p style="padding:0 20px">Our team will contact you to confirm the details of your trip.</p>
{{- end}}
<hr style="border-color:#e6ebf1;margin:20px 0">
<p style="padding:0 20px">Please arrive at the pier 15 minutes before departure.</p>
</div>
</body>
</html>
`))

type receiptView struct {
	CustomerName string
	OrderID      string
	TourName     string
	TravelDate   string
	Guests       string
	Amount       string
	Currency     string
	PaymentRef   string
	Fallback     bool
}

func Subject(r callback.Receipt) string {
	return "Booking Confirmed - " + r.Order.ID
}

func RenderReceipt(r callback.Receipt) (string, error) {
	o := r.Order
	v := receiptView{
		CustomerName: o.Customer.FullName(),
		OrderID:      o.ID,
		TourName:     r.TourName,
		Guests:       guests(o.Party.Adults, o.Party.Children, o.Party.Infants),
		Amount:       groupThousands(o.Amount),
		Currency:     o.Currency,
		PaymentRef:   o.GatewayRef,
		Fallback:     r.Fallback,
	}
	if v.CustomerName == "" {
		v.CustomerName = "customer"
	}
	if o.TravelDate != nil {
		v.TravelDate = o.TravelDate.Format("2006-01-02")
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

func guests(adults, children, infants int) string {
	var parts []string
	add := func(n int, one, many string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+one)
		case n > 1:
			parts = append(parts, strconv.Itoa(n)+" "+many)
		}
	}
	add(adults, "adult", "adults")
	add(children, "child", "children")
	add(infants, "infant", "infants")
	return strings.Join(parts, ", ")
}

// groupThousands formats 1500000 as "1.500.000", the way VND is written.
func groupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
