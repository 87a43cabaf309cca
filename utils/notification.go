package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Booking notification event types
const (
	NotifyBookingConfirmed = "confirmed"
	NotifyBookingRejected  = "rejected"
	NotifyBookingPending   = "pending"
	NotifyPaymentReminder  = "payment-reminder"
)

// BookingNotification describes one booking lifecycle event to dispatch
type BookingNotification struct {
	BookingID      uint
	EventType      string
	RecipientEmail string
	RecipientName  string
	TripName       string
	Amount         float64
	Reason         string
}

var notificationSubjects = map[string]string{
	NotifyBookingConfirmed: "Your TripTrail booking is confirmed",
	NotifyBookingRejected:  "Your TripTrail booking was rejected",
	NotifyBookingPending:   "We received your TripTrail booking",
	NotifyPaymentReminder:  "Payment reminder for your TripTrail booking",
}

// DispatchBookingNotification sends a booking event email in the background.
// Failures are logged and never surfaced; delivery is not correctness-critical
// to the payment state machine.
func DispatchBookingNotification(n BookingNotification) {
	go func() {
		if err := sendBookingEmail(n); err != nil {
			LogError("Failed to send %s notification for booking %d: %v", n.EventType, n.BookingID, err)
			return
		}
		LogInfo("Sent %s notification for booking %d to %s", n.EventType, n.BookingID, n.RecipientEmail)
	}()
}

func sendBookingEmail(n BookingNotification) error {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	subject, ok := notificationSubjects[n.EventType]
	if !ok {
		subject = "TripTrail booking update"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", n.RecipientEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", bookingEmailBody(n))

	d := gomail.NewDialer(host, port, username, password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

func bookingEmailBody(n BookingNotification) string {
	switch n.EventType {
	case NotifyBookingConfirmed:
		return fmt.Sprintf(`
			<h2>Hi %s,</h2>
			<p>Your booking #%d for <b>%s</b> is confirmed. See you on the trail!</p>
		`, n.RecipientName, n.BookingID, n.TripName)
	case NotifyBookingRejected:
		return fmt.Sprintf(`
			<h2>Hi %s,</h2>
			<p>Your booking #%d for <b>%s</b> could not be confirmed.</p>
			<p>Reason: %s</p>
			<p>Please contact support if you believe this is a mistake.</p>
		`, n.RecipientName, n.BookingID, n.TripName, n.Reason)
	case NotifyPaymentReminder:
		return fmt.Sprintf(`
			<h2>Hi %s,</h2>
			<p>A payment of ₹%.2f is still due on your booking #%d for <b>%s</b>.</p>
			<p>Please complete it before the pre-departure deadline to keep your seats.</p>
		`, n.RecipientName, n.Amount, n.BookingID, n.TripName)
	default:
		return fmt.Sprintf(`
			<h2>Hi %s,</h2>
			<p>We received your booking #%d for <b>%s</b>. We will let you know once your payment is reviewed.</p>
		`, n.RecipientName, n.BookingID, n.TripName)
	}
}
