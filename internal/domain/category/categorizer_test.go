package category

import "testing"

func TestCategorize_Default(t *testing.T) {
	c := Default()

	tests := []struct {
		name                     string
		title, subtitle, subject string
		want                     Label
	}{
		{"structural engineering", "Cálculo Estrutural", "", "engenharia civil", Engineering},
		{"python", "Python para Dados", "", "programação", Software},
		{"engineering beats software", "Hidráulica com Python", "", "", Engineering},
		{"science beats engineering", "Química", "", "engenharia", Science},
		{"case insensitive", "BIOLOGIA CELULAR", "", "", Science},
		{"subtitle counts", "Introdução", "uma visão de marketing", "", Management},
		{"author ignored", "Sem Palavras", "", "", Other},
		{"all empty", "", "", "", Other},
		{"accent sensitive", "Gestao moderna", "", "", Other},
		{"architecture", "Paisagismo", "", "", Architecture},
		{"law", "Legislação Trabalhista", "", "", Law},
		{"substring match", "Uma parte do todo", "", "", Humanities},
		{"shared keyword direito goes to humanities", "Direito Civil", "", "", Humanities},
		{"shared keyword educação goes to humanities", "Educação Infantil", "", "", Humanities},
		{"shared keyword inovação goes to management", "Inovação", "", "", Management},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Categorize(tc.title, tc.subtitle, tc.subject)
			if got != tc.want {
				t.Errorf("Categorize(%q, %q, %q) = %q, want %q",
					tc.title, tc.subtitle, tc.subject, got, tc.want)
			}
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	c := Default()
	first := c.Categorize("Redes de Computadores", "", "informática")
	for i := 0; i < 10; i++ {
		if got := c.Categorize("Redes de Computadores", "", "informática"); got != first {
			t.Fatalf("call %d: got %q, want %q", i, got, first)
		}
	}
}

func TestCategorize_CustomOrder(t *testing.T) {
	c, err := NewCategorizer([]Rule{
		{Label: Software, Keywords: []string{"Python"}},
		{Label: Engineering, Keywords: []string{"hidráulica"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Categorize("Hidráulica com Python", "", ""); got != Software {
		t.Errorf("expected software to win with reordered rules, got %q", got)
	}
}

func TestNewCategorizer_Validation(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"empty", nil},
		{"other label", []Rule{{Label: Other, Keywords: []string{"x"}}}},
		{"any label", []Rule{{Label: Any, Keywords: []string{"x"}}}},
		{"unknown label", []Rule{{Label: "poetry", Keywords: []string{"x"}}}},
		{"duplicate", []Rule{
			{Label: Law, Keywords: []string{"x"}},
			{Label: Law, Keywords: []string{"y"}},
		}},
		{"no keywords", []Rule{{Label: Law, Keywords: []string{""}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCategorizer(tc.rules); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDefaultRules_PriorityOrder(t *testing.T) {
	want := []Label{
		Science, Engineering, Software, Humanities, Management, NaturalScience,
		Health, Law, Education, Architecture, Technology,
	}
	rules := DefaultRules()
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, r := range rules {
		if r.Label != want[i] {
			t.Errorf("rule %d: got %q, want %q", i, r.Label, want[i])
		}
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	c := Default()
	rules := c.Rules()
	rules[0].Keywords[0] = "mutated"
	if c.Rules()[0].Keywords[0] == "mutated" {
		t.Error("Rules must not expose internal state")
	}
}
