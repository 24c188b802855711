package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"orgsnap-api/config"
)

// EmailService sends registration verification codes over SMTP. Codes live
// in memory with a short TTL; losing them on restart just means the user
// requests another one.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
	logger *zap.Logger

	verificationCodes map[string]VerificationCode
	mutex             sync.RWMutex
}

type VerificationCode struct {
	Code      string
	Email     string
	ExpiresAt time.Time
	Used      bool
}

func NewEmailService(cfg *config.Config, logger *zap.Logger) *EmailService {
	service := &EmailService{
		config:            cfg,
		dialer:            gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		logger:            logger,
		verificationCodes: make(map[string]VerificationCode),
	}

	go service.cleanupExpiredCodes()

	return service
}

func (es *EmailService) generateVerificationCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}
	return string(code)
}

// SendVerificationEmail mails a verification code to the address, reusing a
// still-valid unused code if one exists.
func (es *EmailService) SendVerificationEmail(email, name string) (string, error) {
	es.mutex.RLock()
	existing, exists := es.verificationCodes[email]
	es.mutex.RUnlock()

	var code string
	if exists && !existing.Used && time.Now().Before(existing.ExpiresAt) {
		code = existing.Code
	} else {
		code = es.generateVerificationCode()
		es.mutex.Lock()
		es.verificationCodes[email] = VerificationCode{
			Code:      code,
			Email:     email,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		es.mutex.Unlock()
	}

	if name == "" {
		name = "there"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Organizations!:Snap - Email Verification")
	m.SetBody("text/plain", fmt.Sprintf(`Hello %s!

Your Organizations!:Snap verification code is: %s

The code expires in 10 minutes. If you didn't create an account, ignore
this email.
`, name, code))

	if err := es.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	es.logger.Info("verification email sent", zap.String("email", email))
	return code, nil
}

// VerifyCode checks a submitted code and consumes it on success.
func (es *EmailService) VerifyCode(email, inputCode string) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	stored, exists := es.verificationCodes[email]
	if !exists || stored.Used {
		return false
	}
	if time.Now().After(stored.ExpiresAt) {
		delete(es.verificationCodes, email)
		return false
	}
	if stored.Code != inputCode {
		return false
	}

	stored.Used = true
	es.verificationCodes[email] = stored
	return true
}

func (es *EmailService) cleanupExpiredCodes() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		es.mutex.Lock()
		for email, code := range es.verificationCodes {
			if now.After(code.ExpiresAt) || code.Used {
				delete(es.verificationCodes, email)
			}
		}
		es.mutex.Unlock()
	}
}
