package utils

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/templates"
	"github.com/resendlabs/resend-go"
)

const (
	resendEmailFrom                 = "onboarding@resend.dev"
	resendReplyFrom                 = "onboarding@resend.dev"
	emailConfirmationExpirationTime = 30 * 60 * time.Second
)

// Email is a struct that contains email related operations
type Email struct {
	Conn *connect.Connector
	Env  *config.Env
}

// SendConfirmation is a function that is sent to the user inorder to confirm the user email address
func (e *Email) SendConfirmation(userID uuid.UUID, email string) error {
	token := uuid.New()
	err := e.Conn.R.Email.SetNX(
		context.TODO(),
		token.String(),
		fmt.Sprintf("%s+%s", userID.String(), email),
		emailConfirmationExpirationTime,
	).Err()
	if err != nil {
		return err
	}

	emailTemplate, err := templates.Email{}.GetEmailConfirmationTmpl(
		fmt.Sprintf("%s/email/confirm?token=%s", e.Env.ServerURL, token.String()),
	)
	if err != nil {
		return err
	}

	client := resend.NewClient(e.Env.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    resendEmailFrom,
		To:      []string{email},
		Html:    emailTemplate,
		Subject: "Email confirmation",
		ReplyTo: resendReplyFrom,
	}
	_, err = client.Emails.Send(params)
	return err
}

// SendWalletVerification sends the email containing the wallet verification
// link and the fallback code
func (e *Email) SendWalletVerification(email, verificationToken, verificationCode string) error {
	link := fmt.Sprintf(
		"%s/wallet/verify?token=%s",
		e.Env.FrontendURL,
		url.QueryEscape(verificationToken),
	)

	emailTemplate, err := templates.Email{}.WalletVerificationTmpl(link, verificationCode)
	if err != nil {
		return err
	}

	client := resend.NewClient(e.Env.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    resendEmailFrom,
		To:      []string{email},
		Html:    emailTemplate,
		Subject: "Verify your Stellar wallet",
		ReplyTo: resendReplyFrom,
	}
	_, err = client.Emails.Send(params)
	return err
}
