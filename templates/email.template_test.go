package templates

import (
	"strings"
	"testing"
)

func TestGetEmailConfirmationTmpl(t *testing.T) {
	link := "http://localhost:8080/email/confirm?token=tkn"

	html, err := Email{}.GetEmailConfirmationTmpl(link)
	if err != nil {
		t.Fatalf("failed to render the template : %v", err)
	}

	if !strings.Contains(html, link) {
		t.Fatal("the confirmation link is missing from the email")
	}
}

func TestWalletVerificationTmpl(t *testing.T) {
	link := "http://localhost:3000/wallet/verify?token=tkn"

	html, err := Email{}.WalletVerificationTmpl(link, "042619")
	if err != nil {
		t.Fatalf("failed to render the template : %v", err)
	}

	if !strings.Contains(html, link) {
		t.Fatal("the verification link is missing from the email")
	}
	for _, digit := range []string{"0", "4", "2", "6", "1", "9"} {
		if !strings.Contains(html, ">"+digit+"</section>") {
			t.Fatalf("the code digit %s is missing from the email", digit)
		}
	}
}
