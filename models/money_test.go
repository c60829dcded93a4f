package models

import "testing"

func TestRupeesToMoney(t *testing.T) {
	cases := []struct {
		rupees float64
		want   Money
	}{
		{0, 0},
		{1, 100},
		{499.50, 49950},
		{0.01, 1},
		{1234.56, 123456},
		// Float artifacts must round, not truncate.
		{0.1 + 0.2, 30},
		{19.99, 1999},
	}
	for _, tc := range cases {
		if got := RupeesToMoney(tc.rupees); got != tc.want {
			t.Errorf("RupeesToMoney(%v) = %d, want %d", tc.rupees, got, tc.want)
		}
	}
}

func TestMoneyRupees(t *testing.T) {
	if got := Money(49950).Rupees(); got != 499.50 {
		t.Errorf("Rupees() = %v, want 499.5", got)
	}
	if got := Money(0).Rupees(); got != 0 {
		t.Errorf("Rupees() = %v, want 0", got)
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	// 100 + 120 out of 300 leaves exactly 80, with no float drift.
	balance := RupeesToMoney(300)
	balance -= RupeesToMoney(100)
	balance -= RupeesToMoney(120)
	if balance != RupeesToMoney(80) {
		t.Errorf("balance = %d paise, want exactly 8000", balance)
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{0, "₹0.00"},
		{100, "₹1.00"},
		{49950, "₹499.50"},
		{5, "₹0.05"},
	}
	for _, tc := range cases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("Money(%d).String() = %q, want %q", tc.m, got, tc.want)
		}
	}
}
