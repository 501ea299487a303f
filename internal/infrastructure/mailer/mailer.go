package mailer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/alam0164088/chef-star/pkg/logger"
)

// Message is a single outbound email with a plain text body and an
// optional HTML alternative.
type Message struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends transactional email. Sending is synchronous and on the
// request path; callers decide whether a failure is fatal.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

var (
	emailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chefstar_emails_sent_total",
		Help: "Outbound emails by delivery outcome.",
	}, []string{"outcome"})
)

func observeSend(err error) {
	if err != nil {
		emailsSentTotal.WithLabelValues("error").Inc()
		return
	}
	emailsSentTotal.WithLabelValues("sent").Inc()
}

// LogMailer writes messages to the log instead of delivering them.
// Development counterpart of the SMTP mailer, same role as a console
// email backend.
type LogMailer struct{}

// NewLogMailer creates a log-only mailer
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(ctx context.Context, msg *Message) error {
	logger.Info(ctx, "email (log backend)",
		zap.String("to", msg.To),
		zap.String("from", msg.From),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	observeSend(nil)
	return nil
}
