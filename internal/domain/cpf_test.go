package domain

import (
	"strings"
	"testing"
	"time"
)

func TestValidCPF(t *testing.T) {
	// 529.982.247-25 is a well-formed CPF fixture with both check digits
	// computed by the standard mod-11 rule.
	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"529.982.247-25", true},
		{"52998224725", true},
		{"52998224724", false}, // second check digit altered
		{"52998224715", false}, // first check digit altered
		{"5299822472", false},  // 10 digits
		{"529982247251", false},
		{"abc", false},
	}
	for _, c := range cases {
		if got := ValidCPF(c.in); got != c.want {
			t.Errorf("ValidCPF(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidCPFRejectsRepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		in := strings.Repeat(string(d), 11)
		if ValidCPF(in) {
			t.Errorf("ValidCPF(%q) accepted repeated digits", in)
		}
	}
}

func TestFormatCPF(t *testing.T) {
	if got := FormatCPF("52998224725"); got != "529.982.247-25" {
		t.Fatalf("FormatCPF = %q", got)
	}
	if got := FormatCPF("5299"); got != "529.9" {
		t.Fatalf("partial FormatCPF = %q", got)
	}
}

func TestFormatRG(t *testing.T) {
	if got := FormatRG("12345678x"); got != "12.345.678-X" {
		t.Fatalf("FormatRG = %q", got)
	}
}

func TestValidatePerson(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if err := ValidatePerson(Person{Nome: "Maria", CPF: "529.982.247-25", DataNascimento: "1980-05-01"}, now); err != nil {
		t.Fatalf("valid person rejected: %v", err)
	}
	if err := ValidatePerson(Person{Nome: " "}, now); err == nil {
		t.Fatal("blank name accepted")
	}
	if err := ValidatePerson(Person{Nome: "Maria", DataNascimento: "2030-01-01"}, now); err == nil {
		t.Fatal("future birth date accepted")
	}
	if err := ValidatePerson(Person{Nome: "Maria", DataNascimento: "1899-12-31"}, now); err == nil {
		t.Fatal("pre-1900 birth date accepted")
	}
	if err := ValidatePerson(Person{Nome: "Maria", RG: "12-3"}, now); err == nil {
		t.Fatal("short RG accepted")
	}
}

func TestStatusLabels(t *testing.T) {
	if got := StatusFinalizadoNaoConcluido.Label(); got != "Finalizado / Não Concluído" {
		t.Fatalf("label = %q", got)
	}
	if !StatusConcluido.Completed() || !StatusFinalizado.Completed() {
		t.Fatal("terminal statuses not marked completed")
	}
	if StatusPendente.Completed() {
		t.Fatal("PENDENTE marked completed")
	}
	if ActivityStatus("BOGUS").Valid() {
		t.Fatal("unknown status reported valid")
	}
}
