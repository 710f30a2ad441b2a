package model

import "strings"

// Credentials travel as the username/secureKey headers.
type Credentials struct {
	Username  string
	SecureKey string
}

// Masked returns a copy safe for logs: the key is fully hidden, the username keeps two leading characters.
func (c Credentials) Masked() Credentials {
	return Credentials{
		Username:  Mask(c.Username, 2),
		SecureKey: Mask(c.SecureKey, 0),
	}
}

// Redact replaces every occurrence of the username or secure key in text with its masked form.
func (c Credentials) Redact(text string) string {
	m := c.Masked()
	pairs := make([]string, 0, 4)
	// longer value first so a username inside the key cannot leave part of the key behind
	vals := [][2]string{{c.SecureKey, m.SecureKey}, {c.Username, m.Username}}
	if len(c.Username) > len(c.SecureKey) {
		vals[0], vals[1] = vals[1], vals[0]
	}
	for _, v := range vals {
		if v[0] != "" {
			pairs = append(pairs, v[0], v[1])
		}
	}
	if len(pairs) == 0 {
		return text
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Mask hides s behind asterisks, keeping up to keep leading characters when s is
// long enough that the result still hides most of it.
func Mask(s string, keep int) string {
	r := []rune(s)
	if len(r) == 0 {
		return ""
	}
	if keep < 0 || len(r) <= keep*2 {
		keep = 0
	}
	return string(r[:keep]) + strings.Repeat("*", 8)
}
