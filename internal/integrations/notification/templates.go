package notification

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

type confirmationText struct {
	Subject    string
	Title      string
	Greeting   string
	ThankYou   string
	Date       string
	Time       string
	Court      string
	BookingID  string
	Amount     string
	Status     string
	Completed  string
	Pending    string
	CancelLink string
	Questions  string
}

type cancellationText struct {
	Subject    string
	Title      string
	Greeting   string
	Message    string
	Date       string
	Time       string
	Court      string
	BookingID  string
	RefundInfo string
	Questions  string
}

var confirmationTexts = map[domain.Language]confirmationText{
	domain.LanguageSV: {
		Subject:    "Bekräftelse på din bokning - Steninge TK",
		Title:      "Bekräftelse på din bokning",
		Greeting:   "Hej",
		ThankYou:   "Tack för din bokning! Här är dina bokningsdetaljer:",
		Date:       "Datum",
		Time:       "Tid",
		Court:      "Bana",
		BookingID:  "Boknings-ID",
		Amount:     "Belopp",
		Status:     "Status",
		Completed:  "Bekräftad",
		Pending:    "Väntande betalning",
		CancelLink: "För att avbryta din bokning, besök:",
		Questions:  "Om du har några frågor, vänligen kontakta oss på",
	},
	domain.LanguageEN: {
		Subject:    "Booking Confirmation - Steninge TK",
		Title:      "Booking Confirmation",
		Greeting:   "Hello",
		ThankYou:   "Thank you for your booking! Here are your booking details:",
		Date:       "Date",
		Time:       "Time",
		Court:      "Court",
		BookingID:  "Booking ID",
		Amount:     "Amount",
		Status:     "Status",
		Completed:  "Confirmed",
		Pending:    "Awaiting payment",
		CancelLink: "To cancel your booking, visit:",
		Questions:  "If you have any questions, please contact us at",
	},
}

var cancellationTexts = map[domain.Language]cancellationText{
	domain.LanguageSV: {
		Subject:    "Bekräftelse på avbokning - Steninge TK",
		Title:      "Din bokning har avbokats",
		Greeting:   "Hej",
		Message:    "Din bokning har nu avbokats. Här är detaljerna för den avbokade bokningen:",
		Date:       "Datum",
		Time:       "Tid",
		Court:      "Bana",
		BookingID:  "Boknings-ID",
		RefundInfo: "Om du har betalat för denna bokning kommer en återbetalning att behandlas inom kort.",
		Questions:  "Om du har några frågor, vänligen kontakta oss på",
	},
	domain.LanguageEN: {
		Subject:    "Booking Cancellation Confirmation - Steninge TK",
		Title:      "Your Booking Has Been Cancelled",
		Greeting:   "Hello",
		Message:    "Your booking has been cancelled. Here are the details of the cancelled booking:",
		Date:       "Date",
		Time:       "Time",
		Court:      "Court",
		BookingID:  "Booking ID",
		RefundInfo: "If you paid for this booking, a refund will be processed shortly.",
		Questions:  "If you have any questions, please contact us at",
	},
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`{{.T.Title}}

{{.T.Greeting}} {{.Name}},

{{.T.ThankYou}}

{{.T.Date}}: {{.Date}}
{{.T.Time}}: {{.Time}}
{{.T.Court}}: {{.Court}}
{{.T.BookingID}}: {{.BookingID}}
{{.T.Amount}}: {{.Amount}} SEK
{{.T.Status}}: {{if .Completed}}{{.T.Completed}}{{else}}{{.T.Pending}}{{end}}

{{.T.CancelLink}}
{{.CancelURL}}

{{.T.Questions}} {{.Contact}}
`))

var cancellationTmpl = template.Must(template.New("cancellation").Parse(`{{.T.Title}}

{{.T.Greeting}} {{.Name}},

{{.T.Message}}

{{.T.Date}}: {{.Date}}
{{.T.Time}}: {{.Time}}
{{.T.Court}}: {{.Court}}
{{.T.BookingID}}: {{.BookingID}}

{{.T.RefundInfo}}

{{.T.Questions}} {{.Contact}}
`))

var swedishMonths = [...]string{
	"januari", "februari", "mars", "april", "maj", "juni",
	"juli", "augusti", "september", "oktober", "november", "december",
}

// formatDate длинный формат даты: "5 juni 2025" / "June 5, 2025"
func formatDate(t time.Time, lang domain.Language) string {
	if lang == domain.LanguageEN {
		return t.Format("January 2, 2006")
	}
	return fmt.Sprintf("%d %s %d", t.Day(), swedishMonths[t.Month()-1], t.Year())
}

// emailData общие поля обоих писем
type emailData struct {
	Name      string
	Date      string
	Time      string
	Court     int
	BookingID string
	Amount    int
	Completed bool
	CancelURL string
	Contact   string
}

func (d *Dispatcher) buildData(b *domain.BookingWithSlots) (emailData, error) {
	if len(b.Slots) == 0 {
		return emailData{}, fmt.Errorf("%w: booking %s has no slots", ErrRender, b.Booking.ID)
	}

	// в письме показывается первый слот бронирования
	first := b.Slots[0]
	start := first.Start.In(d.location)
	end := first.End.In(d.location)

	return emailData{
		Name:      b.Booking.User.Name,
		Date:      formatDate(start, b.Booking.Language),
		Time:      start.Format(domain.TimeFormat) + " - " + end.Format(domain.TimeFormat),
		Court:     first.CourtNumber,
		BookingID: b.Booking.ID,
		Amount:    b.Booking.Payment.Amount,
		Completed: b.Booking.Payment.Status == domain.PaymentCompleted,
		CancelURL: fmt.Sprintf("%s/cancel/%s?token=%s", d.clientURL, b.Booking.ID, b.Booking.CancellationToken),
		Contact:   d.contactEmail,
	}, nil
}

func renderConfirmation(data emailData, lang domain.Language) (string, string, error) {
	t := confirmationTexts[domain.ParseLanguage(string(lang))]

	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		emailData
		T confirmationText
	}{data, t})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return t.Subject, buf.String(), nil
}

func renderCancellation(data emailData, lang domain.Language) (string, string, error) {
	t := cancellationTexts[domain.ParseLanguage(string(lang))]

	var buf bytes.Buffer
	err := cancellationTmpl.Execute(&buf, struct {
		emailData
		T cancellationText
	}{data, t})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return t.Subject, buf.String(), nil
}
