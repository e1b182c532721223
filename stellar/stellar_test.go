package stellar

import "testing"

func TestIsValidAddress(t *testing.T) {
	args := []struct {
		address string
		valid   bool
	}{
		{"GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7", true},
		// a secret seed is not an account address
		{"SDJHRQF4GCMIIKAAAQ6IHY42X73FQFLHUULAPSKKD4DFDM7UXWWCRHBE", false},
		{"gaazi4tcr3ty5ojhctjc2a4qsy6cjwjh5iajtgkin2er7lbnvkoccwn7", false},
		{"GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN", false},
		{"INVALID_WALLET", false},
		{"", false},
	}

	for _, arg := range args {
		if got := IsValidAddress(arg.address); got != arg.valid {
			t.Errorf("IsValidAddress(%q) = %v, want %v", arg.address, got, arg.valid)
		}
	}
}
