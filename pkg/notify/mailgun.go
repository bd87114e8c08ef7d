package notify

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send delivers the notification described by the job as a plain-text email.
func (m *Mailgun) Send(ctx context.Context, job Job) error {
	subject, text := Render(job)
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, job.Email)
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// Render produces the subject and body for a notification job.
func Render(job Job) (subject, text string) {
	switch job.Event {
	case EventFriendRequest:
		subject = fmt.Sprintf("%s sent you a friend request", job.ActorName)
		text = fmt.Sprintf("Hi %s,\n\n%s wants to add you as a friend. Log in to accept or decline the request.\n",
			job.RecipientName, job.ActorName)
	case EventFriendAccepted:
		subject = fmt.Sprintf("%s accepted your friend request", job.ActorName)
		text = fmt.Sprintf("Hi %s,\n\nYou and %s are now friends. Their posts will show up in your feed.\n",
			job.RecipientName, job.ActorName)
	default:
		subject = "Notification"
		text = fmt.Sprintf("Hi %s,\n\nYou have a new notification.\n", job.RecipientName)
	}
	return subject, text
}
