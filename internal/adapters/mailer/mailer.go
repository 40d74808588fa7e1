package mailer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/dejalu/gestion/internal/domain"
)

// Mailer sends plain-text order confirmations over an authenticated
// STARTTLS relay. Every failure mode reduces to ErrTransport: the order
// stays committed whether or not the mail went out.
type Mailer struct {
	host       string
	port       int
	user       string
	password   string
	senderName string
	senderMail string
}

func NewFromEnv() *Mailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	sender := os.Getenv("SMTP_SENDER_EMAIL")
	if sender == "" {
		sender = os.Getenv("SMTP_USER")
	}
	name := os.Getenv("SMTP_SENDER_NAME")
	if name == "" {
		name = "GestionDejaLu"
	}
	return &Mailer{
		host:       os.Getenv("SMTP_HOST"),
		port:       port,
		user:       os.Getenv("SMTP_USER"),
		password:   os.Getenv("SMTP_PASSWORD"),
		senderName: name,
		senderMail: sender,
	}
}

func (m *Mailer) SendOrderConfirmation(email, name string, books []domain.Book) error {
	if m.host == "" || m.user == "" || m.password == "" {
		log.Warn().Msg("SMTP non configuré, envoi de confirmation ignoré")
		return fmt.Errorf("%w: SMTP non configuré", domain.ErrTransport)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.senderMail, m.senderName))
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Confirmation de votre commande - GestionDejaLu")
	msg.SetBody("text/plain", BuildBody(name, m.senderMail, books))

	d := gomail.NewDialer(m.host, m.port, m.user, m.password)
	if err := d.DialAndSend(msg); err != nil {
		log.Error().Err(err).Str("to", email).Msg("envoi email confirmation")
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	log.Info().Str("to", email).Int("livres", len(books)).Msg("email de confirmation envoyé")
	return nil
}

// BuildBody renders the fixed plain-text template: one line per book plus
// the total.
func BuildBody(name, contact string, books []domain.Book) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\n", name)
	b.WriteString("Merci pour votre commande chez GestionDejaLu ! Voici les détails de votre commande :\n\n")
	b.WriteString("Items commandés :\n")
	var total float64
	for _, bk := range books {
		isbn := bk.ISBN
		if isbn == "" {
			isbn = "N/A"
		}
		fmt.Fprintf(&b, "- %s par %s (ISBN: %s) - %s\n", bk.Title, bk.Author, isbn, bk.DisplayPrice())
		if bk.Price != nil {
			total += *bk.Price
		}
	}
	fmt.Fprintf(&b, "\nMontant total : %.2f €\n\n", total)
	fmt.Fprintf(&b, "Nous vous contacterons bientôt pour la livraison. Si vous avez des questions, contactez-nous à %s.\n\n", contact)
	b.WriteString("Cordialement,\nL'équipe GestionDejaLu\n")
	return b.String()
}
