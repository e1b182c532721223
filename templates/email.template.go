// Package templates contains the HTML templates of the emails sent by the server
package templates

import (
	"bytes"
	"strings"
	"text/template"
)

// Email contains all the templates that are related to email
type Email struct{}

// GetEmailConfirmationTmpl is a function that is used to get the email confirmation template
func (Email) GetEmailConfirmationTmpl(url string) (emailHTML string, err error) {
	emailVerification := struct{ URL string }{URL: url}

	tmpl := `
<html>
  <head>
    <style>
      .contianer {
        display: flex;
        flex-direction: column;
        align-items: center;
        justify-content: center;
        gap: 4;
        margin-top: 20px;
        margin-bottom: 40px;
      }
      .goto {
        align-items: center;
        background-color: #ffffff;
        border: 1px solid rgba(0, 0, 0, 0.1);
        border-radius: 0.25rem;
        color: rgba(0, 0, 0, 0.85);
        cursor: pointer;
        display: inline-flex;
        font-family: system-ui, -apple-system, system-ui, "Helvetica Neue",
          Helvetica, Arial, sans-serif;
        font-size: 16px;
        font-weight: 600;
        justify-content: center;
        line-height: 1.25;
        margin: 0;
        min-height: 3rem;
        padding: calc(0.875rem - 1px) calc(1.5rem - 1px);
        position: relative;
        text-decoration: none;
      }
    </style>
  </head>
  <body>
    <h1>Lumen Ledger</h1>
    <strong>Confirm your email address</strong>
    <br />
    <div class="contianer">
      <section>
        <a id="goto" class="goto" href="{{.URL}}"> Confirm Email address </a>
      </section>
    </div>
    <footer>
      If you are wondering about what this email is please ignore this email
    </footer>
  </body>
</html>
`
	t := template.Must(template.New("emailVerification").Parse(tmpl))

	var buf bytes.Buffer
	err = t.Execute(&buf, emailVerification)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

// WalletVerificationTmpl is a function that is used to get the wallet
// verification email containing the confirmation link and the fallback code
func (Email) WalletVerificationTmpl(url, code string) (emailHTML string, err error) {
	codes := strings.Split(code, "")

	tmpl := `
<html>
  <style>
    .container {
      display: flex;
      flex-direction: row;
      align-items: center;
      justify-content: center;
      width: 100%;
      margin-top: 10px;
      column-gap: 20px;
    }

    .block {
      display: flex;
      border: 2px solid black;
      border-radius: 20%;
      width: 50px;
      height: 50px;
      align-items: center;
      justify-content: center;
    }
  </style>
  <h1>Lumen Ledger</h1>
  <strong> Verify the ownership of your Stellar wallet </strong>
  <br />
  <p>
    Click the link below and enter the code to bind the wallet address to your
    account. The link is valid for 24 hours.
  </p>
  <a href="{{.URL}}">Verify wallet address</a>
  <br />
  <div class="container">
    <section class="block">{{.CODE1}}</section>
    <section class="block">{{.CODE2}}</section>
    <section class="block">{{.CODE3}}</section>
    <section class="block">{{.CODE4}}</section>
    <section class="block">{{.CODE5}}</section>
    <section class="block">{{.CODE6}}</section>
  </div>
  <footer>
    If you did not request this verification please ignore this email
  </footer>
</html>
`

	t := template.Must(template.New("walletVerification").Parse(tmpl))

	var buf bytes.Buffer
	err = t.Execute(&buf, struct {
		URL   string
		CODE1 string
		CODE2 string
		CODE3 string
		CODE4 string
		CODE5 string
		CODE6 string
	}{
		URL:   url,
		CODE1: codes[0],
		CODE2: codes[1],
		CODE3: codes[2],
		CODE4: codes[3],
		CODE5: codes[4],
		CODE6: codes[5],
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
