package drip_test

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/drip"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestCalculator_Scenarios(t *testing.T) {
	calc := drip.NewCalculator(drip.DefaultPolicy())

	tests := []struct {
		name     string
		price    string
		required int64
		budget   string
		want     drip.Result
	}{
		{
			name:     "budget just short of threshold",
			price:    "82.45",
			required: 25,
			budget:   "2000",
			want: drip.Result{
				AffordableShares:      24,
				Eligible:              false,
				Shortfall:             decimal.RequireFromString("82.45"),
				RecommendedShares:     28,
				MinimumInvestment:     decimal.RequireFromString("2061.25"),
				RecommendedInvestment: decimal.RequireFromString("2308.60"),
			},
		},
		{
			name:     "budget exactly meets threshold",
			price:    "82.45",
			required: 25,
			budget:   "2061.25",
			want: drip.Result{
				AffordableShares:      25,
				Eligible:              true,
				Shortfall:             decimal.Zero,
				RecommendedShares:     28,
				MinimumInvestment:     decimal.RequireFromString("2061.25"),
				RecommendedInvestment: decimal.RequireFromString("2308.60"),
			},
		},
		{
			name:     "zero budget",
			price:    "47.32",
			required: 50,
			budget:   "0",
			want: drip.Result{
				AffordableShares:      0,
				Eligible:              false,
				Shortfall:             decimal.RequireFromString("2366.00"),
				RecommendedShares:     55,
				MinimumInvestment:     decimal.RequireFromString("2366.00"),
				RecommendedInvestment: decimal.RequireFromString("2602.60"),
			},
		},
		{
			name:     "zero threshold is always eligible",
			price:    "41.20",
			required: 0,
			budget:   "0",
			want: drip.Result{
				AffordableShares:      0,
				Eligible:              true,
				Shortfall:             decimal.Zero,
				RecommendedShares:     0,
				MinimumInvestment:     decimal.Zero,
				RecommendedInvestment: decimal.Zero,
			},
		},
		{
			name:     "large budget raises recommendation to affordable shares",
			price:    "41.20",
			required: 60,
			budget:   "10000",
			want: drip.Result{
				AffordableShares:      242,
				Eligible:              true,
				Shortfall:             decimal.Zero,
				RecommendedShares:     242,
				MinimumInvestment:     decimal.RequireFromString("2472.00"),
				RecommendedInvestment: decimal.RequireFromString("9970.40"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Calculate(dec(t, tt.price), tt.required, dec(t, tt.budget))
			if err != nil {
				t.Fatalf("Calculate() returned unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, decimalEqual); diff != "" {
				t.Errorf("Calculate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalculator_InvalidInput(t *testing.T) {
	calc := drip.NewCalculator(drip.DefaultPolicy())

	tests := []struct {
		name      string
		price     string
		required  int64
		budget    string
		wantField string
	}{
		{"zero price", "0", 25, "100", "unitPrice"},
		{"negative price", "-1.50", 25, "100", "unitPrice"},
		{"negative threshold", "10", -1, "100", "requiredShares"},
		{"negative budget", "10", 5, "-0.01", "budget"},
		{"affordable shares overflow", "1", 25, "100000000000000000000", "budget"},
		{"affordable shares overflow at cent price", "0.01", 25, "92233720368547758.08", "budget"},
		{"recommended shares overflow", "1", math.MaxInt64 - 1, "100", "requiredShares"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(dec(t, tt.price), tt.required, dec(t, tt.budget))
			if !errors.Is(err, drip.ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}

			var inputErr *drip.InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("Expected *InvalidInputError, got %T", err)
			}
			if inputErr.Field != tt.wantField {
				t.Errorf("Expected field %q, got %q", tt.wantField, inputErr.Field)
			}
		})
	}
}

func TestCalculator_Properties(t *testing.T) {
	calc := drip.NewCalculator(drip.DefaultPolicy())

	prices := []string{"0.01", "1", "9.99", "41.20", "47.32", "82.45", "132.75", "152.50", "1000.01"}
	budgets := []string{"0", "0.01", "1", "99.99", "500", "2000", "2061.25", "12345.67", "100000"}
	thresholds := []int64{0, 1, 20, 25, 50, 60, 125}

	for _, p := range prices {
		for _, b := range budgets {
			for _, req := range thresholds {
				price := dec(t, p)
				budget := dec(t, b)

				got, err := calc.Calculate(price, req, budget)
				if err != nil {
					t.Fatalf("Calculate(%s, %d, %s) returned unexpected error: %v", p, req, b, err)
				}

				wantAffordable := budget.Div(price).Floor().IntPart()
				if got.AffordableShares != wantAffordable {
					t.Errorf("Calculate(%s, %d, %s): affordable = %d, want %d", p, req, b, got.AffordableShares, wantAffordable)
				}
				if got.AffordableShares < 0 {
					t.Errorf("Calculate(%s, %d, %s): negative affordable shares", p, req, b)
				}
				if got.Eligible != (got.AffordableShares >= req) {
					t.Errorf("Calculate(%s, %d, %s): eligible = %v with affordable %d", p, req, b, got.Eligible, got.AffordableShares)
				}
				if got.Eligible && !got.Shortfall.IsZero() {
					t.Errorf("Calculate(%s, %d, %s): eligible but shortfall %s", p, req, b, got.Shortfall)
				}
				if !got.Eligible {
					want := decimal.NewFromInt(req - got.AffordableShares).Mul(price).Round(2)
					if !got.Shortfall.Equal(want) || !got.Shortfall.IsPositive() {
						t.Errorf("Calculate(%s, %d, %s): shortfall = %s, want %s", p, req, b, got.Shortfall, want)
					}
				}
				if got.RecommendedShares < got.AffordableShares || got.RecommendedShares < req {
					t.Errorf("Calculate(%s, %d, %s): recommended %d below affordable %d or required %d",
						p, req, b, got.RecommendedShares, got.AffordableShares, req)
				}

				again, _ := calc.Calculate(price, req, budget)
				if diff := cmp.Diff(got, again, decimalEqual); diff != "" {
					t.Errorf("Calculate(%s, %d, %s) not deterministic:\n%s", p, req, b, diff)
				}
			}
		}
	}
}

func TestCalculator_ExactBoundary(t *testing.T) {
	calc := drip.NewCalculator(drip.DefaultPolicy())

	for _, tc := range []struct {
		price    string
		required int64
	}{
		{"82.45", 25},
		{"47.32", 50},
		{"41.20", 60},
		{"0.07", 3},
		{"152.50", 125},
	} {
		price := dec(t, tc.price)
		budget := price.Mul(decimal.NewFromInt(tc.required))

		got, err := calc.Calculate(price, tc.required, budget)
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}
		if !got.Eligible {
			t.Errorf("price %s x %d: expected eligible at exact budget %s", tc.price, tc.required, budget)
		}
		if !got.Shortfall.IsZero() {
			t.Errorf("price %s x %d: expected zero shortfall, got %s", tc.price, tc.required, got.Shortfall)
		}
	}
}

func TestCalculator_CalculateFloat(t *testing.T) {
	calc := drip.NewCalculator(drip.DefaultPolicy())

	got, err := calc.CalculateFloat(82.45, 25, 2000)
	if err != nil {
		t.Fatalf("CalculateFloat() returned unexpected error: %v", err)
	}
	if got.AffordableShares != 24 || got.Eligible {
		t.Errorf("Expected 24 ineligible shares, got %d eligible=%v", got.AffordableShares, got.Eligible)
	}
	if !got.Shortfall.Equal(decimal.RequireFromString("82.45")) {
		t.Errorf("Expected shortfall 82.45, got %s", got.Shortfall)
	}

	if _, err := calc.CalculateFloat(0, 25, 2000); !errors.Is(err, drip.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero price, got %v", err)
	}
}

func TestCalculator_ZeroValueUsesNoBuffer(t *testing.T) {
	var calc drip.Calculator

	got, err := calc.Calculate(decimal.NewFromInt(10), 25, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Calculate() returned unexpected error: %v", err)
	}
	if got.RecommendedShares != 25 {
		t.Errorf("Expected recommendation equal to threshold, got %d", got.RecommendedShares)
	}
}

// TestCalculator_LargestShareCount tests the int64 boundary of the share counts.
//
// WHY: A budget that buys exactly math.MaxInt64 shares is still representable
// and must be answered, not rejected or wrapped around.
func TestCalculator_LargestShareCount(t *testing.T) {
	calc := drip.NewCalculator(drip.DefaultPolicy())

	got, err := calc.Calculate(dec(t, "1"), 25, dec(t, strconv.FormatInt(math.MaxInt64, 10)+".99"))
	if err != nil {
		t.Fatalf("Calculate() returned unexpected error: %v", err)
	}
	if got.AffordableShares != math.MaxInt64 {
		t.Errorf("AffordableShares = %d, want %d", got.AffordableShares, int64(math.MaxInt64))
	}
	if !got.Eligible {
		t.Error("Expected eligible")
	}
	if got.RecommendedShares != math.MaxInt64 {
		t.Errorf("RecommendedShares = %d, want %d", got.RecommendedShares, int64(math.MaxInt64))
	}
}
