package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundMoneyHalfAwayFromZero(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01",
		"2.545":  "2.55",
		"9.999":  "10",
		"-1.005": "-1.01",
		"3":      "3",
	}
	for in, want := range cases {
		got := RoundMoney(decimal.RequireFromString(in))
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("RoundMoney(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestFloorQuantity(t *testing.T) {
	cases := []struct {
		in   float64
		want int
		ok   bool
	}{
		{3.9, 3, true},
		{0.2, 0, true},
		{12, 12, true},
		{MaxQuantity + 0.5, MaxQuantity, true},
		{MaxQuantity + 1, 0, false},
		{1e19, 0, false},
		{-0.5, 0, false},
	}
	for _, tc := range cases {
		got, ok := FloorQuantity(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("FloorQuantity(%v) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLineTotalAndAverageCost(t *testing.T) {
	if got := LineTotal(3, decimal.RequireFromString("1.01")); !got.Equal(decimal.RequireFromString("3.03")) {
		t.Errorf("LineTotal = %s", got)
	}

	avg := AverageCost(decimal.RequireFromString("300"), 150)
	if !avg.Equal(decimal.RequireFromString("2")) {
		t.Errorf("AverageCost = %s", avg)
	}
	if !AverageCost(decimal.RequireFromString("10"), 0).IsZero() {
		t.Error("average cost with no stock in must be zero")
	}
}
