package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. With no from address the
// service is created disabled and all sends become no-ops.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: EMAIL_FROM not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to WatchNest"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #2c5f7c;">Welcome to WatchNest!</h1>
		<p>Hi %s,</p>
		<p>Your account is ready. Start building your watchlist, then create a
		family group and share an invite code so everyone can plan movie night
		together.</p>
		<p style="text-align: center;">
			<a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #2c5f7c; color: white; text-decoration: none; border-radius: 5px;">Open WatchNest</a>
		</p>
		<p style="font-size: 12px; color: #666;">This is an automated email from WatchNest. Please do not reply.</p>
	</div>
</body>
</html>`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Welcome to WatchNest! Your account is ready.

Start building your watchlist, then create a family group and share an
invite code so everyone can plan movie night together.

Open WatchNest: %s

This is an automated email from WatchNest. Please do not reply.`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendPasswordResetEmail sends a password reset email with a reset link
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): password reset to %s", toEmail)
		return nil
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.appBaseURL, resetToken)

	subject := "Reset Your WatchNest Password"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #2c5f7c;">Password Reset Request</h1>
		<p>Hi %s,</p>
		<p>We received a request to reset your WatchNest password.</p>
		<p style="text-align: center;">
			<a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #2c5f7c; color: white; text-decoration: none; border-radius: 5px;">Reset Password</a>
		</p>
		<p>Or copy and paste this link into your browser:</p>
		<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
		<p><strong>This link will expire in 1 hour.</strong></p>
		<p>If you didn't request a password reset, you can safely ignore this email.</p>
		<p style="font-size: 12px; color: #666;">This is an automated email from WatchNest. Please do not reply.</p>
	</div>
</body>
</html>`, toName, resetLink, resetLink)

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your WatchNest password.

Reset your password using this link (expires in 1 hour):
%s

If you didn't request a password reset, you can safely ignore this email.`, toName, resetLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendGroupInviteEmail sends a family group invite code to an email address
func (s *EmailService) SendGroupInviteEmail(ctx context.Context, toEmail, senderName, groupName, inviteCode string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): group invite to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("%s invited you to join %s on WatchNest", senderName, groupName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #2c5f7c;">You're Invited!</h1>
		<p>%s has invited you to join the family group <strong>%s</strong> on WatchNest,
		where you can share your watchlist and pick what to watch together.</p>
		<p>Use this invite code when you sign up or join a group:</p>
		<p style="text-align: center; font-size: 28px; letter-spacing: 4px; font-family: monospace;"><strong>%s</strong></p>
		<p style="text-align: center;">
			<a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #2c5f7c; color: white; text-decoration: none; border-radius: 5px;">Join on WatchNest</a>
		</p>
		<p style="font-size: 12px; color: #666;">This is an automated email from WatchNest. Please do not reply.</p>
	</div>
</body>
</html>`, senderName, groupName, inviteCode, s.appBaseURL)

	textBody := fmt.Sprintf(`%s has invited you to join the family group %q on WatchNest.

Use this invite code when you sign up or join a group: %s

Join on WatchNest: %s`, senderName, groupName, inviteCode, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
