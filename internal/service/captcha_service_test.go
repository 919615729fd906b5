package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/ruda-paints/internal/config"
)

func TestCaptchaDisabledPasses(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{})
	if err := svc.VerifyLogin(CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha should pass, got %v", err)
	}
}

func TestCaptchaVerifyIsSingleUse(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{LoginEnabled: true})
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/png;base64,") {
		t.Fatalf("unexpected challenge %+v", challenge)
	}

	if err := svc.VerifyLogin(CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("missing captcha should be required, got %v", err)
	}

	answer := svc.store.Get(challenge.CaptchaID, false)
	if err := svc.VerifyLogin(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: strings.ToUpper(answer)}); err != nil {
		t.Fatalf("correct answer should pass, got %v", err)
	}
	if err := svc.VerifyLogin(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("answer must be single use, got %v", err)
	}
}
