package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendRiskAlert notifies a user about the first projected low balance or overdraft
func (s *Sender) SendRiskAlert(to, username string, event *models.OverdraftRiskEvent) error {
	e := s.riskAlert(to, username, event)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send risk alert to %s: %v", to, err)
		return fmt.Errorf("failed to send risk alert: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) riskAlert(to, username string, event *models.OverdraftRiskEvent) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if event.Kind == models.RiskOverdraft {
		e.Subject = "Projected Overdraft Warning"
	} else {
		e.Subject = "Projected Low Balance Warning"
	}

	body := fmt.Sprintf("Dear %s,\n\n", username)
	if event.Kind == models.RiskOverdraft {
		body += fmt.Sprintf(
			"Based on your recurring payments your balance is projected to fall to %.2f %s on %s.\n"+
				"Please top up your account before that date to avoid an overdraft.\n",
			event.Balance, s.cfg.BaseCurrency, event.Date.Format(models.DateLayout),
		)
	} else {
		body += fmt.Sprintf(
			"Based on your recurring payments your balance is projected to drop to %.2f %s on %s,\n"+
				"below the %.2f %s low balance threshold.\n",
			event.Balance, s.cfg.BaseCurrency, event.Date.Format(models.DateLayout),
			s.cfg.Forecast.LowBalanceThreshold, s.cfg.BaseCurrency,
		)
	}
	body += "\nBest regards,\nCash Flow Service"
	e.Text = []byte(body)
	return e
}
