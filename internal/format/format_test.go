package format

import (
	"testing"

	"frota/internal/core"
)

func TestFormatter_Money(t *testing.T) {
	tests := []struct {
		name  string
		f     Formatter
		cents int64
		want  string
	}{
		{"br thousands", BR, 2456025, "R$ 24.560,25"},
		{"br small", BR, 5, "R$ 0,05"},
		{"br zero", BR, 0, "R$ 0,00"},
		{"en thousands", EN, 2456025, "R$ 24,560.25"},
		{"br millions", BR, 123456789, "R$ 1.234.567,89"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Money(core.Money{Cents: tt.cents}); got != tt.want {
				t.Errorf("Money(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}

func TestFormatter_Distance(t *testing.T) {
	if got := BR.Distance(40200); got != "40.200,0" {
		t.Errorf("BR.Distance = %q", got)
	}
	if got := EN.Distance(45230.5); got != "45,230.5" {
		t.Errorf("EN.Distance = %q", got)
	}
}

func TestFormatter_Efficiency(t *testing.T) {
	if got := BR.Efficiency(core.Efficiency{Value: 0.61, Defined: true}); got != "R$ 0,61/km" {
		t.Errorf("defined = %q", got)
	}
	if got := BR.Efficiency(core.Efficiency{}); got != "indefinido" {
		t.Errorf("undefined = %q", got)
	}
	if got := EN.Number(core.Efficiency{}); got != "" {
		t.Errorf("undefined number = %q, want empty", got)
	}
}

func TestFormatter_Percent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{20.415763550823375, "+20,42%"},
		{-16.746780958062057, "-16,75%"},
		{0, "0,00%"},
		{-0.001, "0,00%"},
	}
	for _, tt := range tests {
		if got := BR.Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFor(t *testing.T) {
	if For(core.LocaleEN).undefined != "undefined" || For(core.LocalePT).undefined != "indefinido" {
		t.Error("For picked the wrong formatter")
	}
}
