package domain

import (
	"fmt"
	"strings"
	"time"
)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF checks the two mod-11 check digits of a Brazilian CPF. An empty
// value is valid (no CPF provided).
func ValidCPF(cpf string) bool {
	clean := digitsOnly(cpf)
	if clean == "" {
		return true
	}
	if len(clean) != 11 {
		return false
	}
	repeated := true
	for i := 1; i < 11; i++ {
		if clean[i] != clean[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(clean[i]-'0') * (10 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 || rest == 11 {
		rest = 0
	}
	if rest != int(clean[9]-'0') {
		return false
	}
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(clean[i]-'0') * (11 - i)
	}
	rest = (sum * 10) % 11
	if rest == 10 || rest == 11 {
		rest = 0
	}
	return rest == int(clean[10]-'0')
}

// FormatCPF applies the 000.000.000-00 mask to however many digits are
// present, leaving partial input partially masked.
func FormatCPF(cpf string) string {
	d := digitsOnly(cpf)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// FormatRG applies the São Paulo 00.000.000-X mask. The last position may be
// an X check character.
func FormatRG(rg string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(rg) {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) > 9 {
		d = d[:9]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 5:
		return d[:2] + "." + d[2:]
	case len(d) <= 8:
		return d[:2] + "." + d[2:5] + "." + d[5:]
	default:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "-" + d[8:]
	}
}

// ValidatePerson applies the form-boundary checks: name required, CPF
// checksum, birth date neither in the future nor before 1900, RG with at
// least five significant characters when present.
func ValidatePerson(p Person, now time.Time) error {
	if strings.TrimSpace(p.Nome) == "" {
		return fmt.Errorf("nome is required")
	}
	if !ValidCPF(p.CPF) {
		return fmt.Errorf("invalid CPF %q", p.CPF)
	}
	if p.DataNascimento != "" {
		birth, err := time.Parse("2006-01-02", p.DataNascimento)
		if err != nil {
			return fmt.Errorf("invalid birth date %q", p.DataNascimento)
		}
		if birth.After(now) {
			return fmt.Errorf("birth date %s is in the future", p.DataNascimento)
		}
		if birth.Year() < 1900 {
			return fmt.Errorf("birth date %s is before 1900", p.DataNascimento)
		}
	}
	if p.RG != "" {
		var clean strings.Builder
		for _, r := range strings.ToUpper(p.RG) {
			if (r >= '0' && r <= '9') || r == 'X' {
				clean.WriteRune(r)
			}
		}
		if clean.Len() < 5 {
			return fmt.Errorf("RG %q too short", p.RG)
		}
	}
	return nil
}
