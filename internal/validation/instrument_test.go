package validation_test

import (
	"errors"
	"testing"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func validCreateRequest() request.CreateInstrumentRequest {
	return request.CreateInstrumentRequest{
		Symbol:            "cu.to",
		Name:              "Canadian Utilities Limited",
		Type:              model.InstrumentTypeStock,
		Sector:            "Utilities",
		Exchange:          "TSX",
		Currency:          "CAD",
		Price:             31.80,
		DividendYield:     5.7,
		DividendAmount:    0.4531,
		DividendFrequency: model.FrequencyQuarterly,
		NextPaymentDate:   "2024-03-01",
		RequiredShares:    ptr[int64](50),
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *validation.Error, got %T (%v)", err, err)
	}
	return verr.Fields
}

func TestValidateCreateInstrument(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		if err := validation.ValidateCreateInstrument(validCreateRequest()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("zero required shares is allowed", func(t *testing.T) {
		req := validCreateRequest()
		req.RequiredShares = ptr[int64](0)
		if err := validation.ValidateCreateInstrument(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("non-TSX stock needs no suffix", func(t *testing.T) {
		req := validCreateRequest()
		req.Symbol = "PG"
		req.Exchange = "NYSE"
		req.Currency = "USD"
		if err := validation.ValidateCreateInstrument(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("TSX ETF needs no suffix check", func(t *testing.T) {
		req := validCreateRequest()
		req.Symbol = "XEI"
		req.Type = model.InstrumentTypeETF
		if err := validation.ValidateCreateInstrument(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*request.CreateInstrumentRequest)
		field  string
	}{
		{"missing symbol", func(r *request.CreateInstrumentRequest) { r.Symbol = "  " }, "symbol"},
		{"malformed symbol", func(r *request.CreateInstrumentRequest) { r.Symbol = "CU TO" }, "symbol"},
		{"TSX stock without suffix", func(r *request.CreateInstrumentRequest) { r.Symbol = "CU" }, "symbol"},
		{"missing name", func(r *request.CreateInstrumentRequest) { r.Name = "" }, "name"},
		{"unknown type", func(r *request.CreateInstrumentRequest) { r.Type = "bond" }, "type"},
		{"missing sector", func(r *request.CreateInstrumentRequest) { r.Sector = "" }, "sector"},
		{"bad currency", func(r *request.CreateInstrumentRequest) { r.Currency = "CDN$" }, "currency"},
		{"zero price", func(r *request.CreateInstrumentRequest) { r.Price = 0 }, "price"},
		{"missing required shares", func(r *request.CreateInstrumentRequest) { r.RequiredShares = nil }, "requiredShares"},
		{"negative required shares", func(r *request.CreateInstrumentRequest) { r.RequiredShares = ptr[int64](-1) }, "requiredShares"},
		{"negative yield", func(r *request.CreateInstrumentRequest) { r.DividendYield = -0.1 }, "dividendYield"},
		{"unknown frequency", func(r *request.CreateInstrumentRequest) { r.DividendFrequency = "weekly" }, "dividendFrequency"},
		{"bad payment date", func(r *request.CreateInstrumentRequest) { r.NextPaymentDate = "03/01/2024" }, "nextPaymentDate"},
		{"discount over 100", func(r *request.CreateInstrumentRequest) { r.DripDiscount = 101 }, "dripDiscount"},
		{"negative MER", func(r *request.CreateInstrumentRequest) { r.MER = ptr(-0.1) }, "mer"},
		{"unknown status", func(r *request.CreateInstrumentRequest) { r.Status = "delisted" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			fields := fieldErrors(t, validation.ValidateCreateInstrument(req))
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("Expected error on %s, got %v", tt.field, fields)
			}
		})
	}
}

func TestValidateUpdateInstrument(t *testing.T) {
	t.Run("empty update is valid", func(t *testing.T) {
		if err := validation.ValidateUpdateInstrument(request.UpdateInstrumentRequest{}); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("only provided fields are checked", func(t *testing.T) {
		err := validation.ValidateUpdateInstrument(request.UpdateInstrumentRequest{
			Price:          ptr(0.0),
			RequiredShares: ptr[int64](-5),
		})
		fields := fieldErrors(t, err)
		if len(fields) != 2 {
			t.Errorf("Expected 2 field errors, got %v", fields)
		}
	})
}

func TestValidateMergedInstrument(t *testing.T) {
	in := model.Instrument{Symbol: "TD.TO", Type: model.InstrumentTypeStock, Exchange: "TSX"}
	if err := validation.ValidateMergedInstrument(in); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	in.Symbol = "TD"
	if err := validation.ValidateMergedInstrument(in); err == nil {
		t.Error("Expected error for TSX stock without suffix")
	}
}

func TestValidateCalculate(t *testing.T) {
	tests := []struct {
		name    string
		req     request.CalculateRequest
		wantErr []string
	}{
		{"valid", request.CalculateRequest{UnitPrice: ptr(82.45), RequiredShares: ptr[int64](25), Budget: ptr(2000.0)}, nil},
		{"zero budget", request.CalculateRequest{UnitPrice: ptr(82.45), RequiredShares: ptr[int64](25), Budget: ptr(0.0)}, nil},
		{"all missing", request.CalculateRequest{}, []string{"unitPrice", "requiredShares", "budget"}},
		{"zero price", request.CalculateRequest{UnitPrice: ptr(0.0), RequiredShares: ptr[int64](25), Budget: ptr(1.0)}, []string{"unitPrice"}},
		{"negative budget", request.CalculateRequest{UnitPrice: ptr(1.0), RequiredShares: ptr[int64](25), Budget: ptr(-1.0)}, []string{"budget"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateCalculate(tt.req)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			fields := fieldErrors(t, err)
			for _, f := range tt.wantErr {
				if _, ok := fields[f]; !ok {
					t.Errorf("Expected error on %s, got %v", f, fields)
				}
			}
		})
	}
}

func TestValidateUpdateUserStatus(t *testing.T) {
	for _, status := range []string{model.UserStatusActive, model.UserStatusBlocked} {
		if err := validation.ValidateUpdateUserStatus(request.UpdateUserStatusRequest{Status: status}); err != nil {
			t.Errorf("Expected %s to be valid, got %v", status, err)
		}
	}
	for _, status := range []string{"", "suspended"} {
		if err := validation.ValidateUpdateUserStatus(request.UpdateUserStatusRequest{Status: status}); err == nil {
			t.Errorf("Expected %q to be rejected", status)
		}
	}
}

func TestValidateSymbol(t *testing.T) {
	if err := validation.ValidateSymbol(" enb.to "); err != nil {
		t.Errorf("Expected normalized symbol to be valid, got %v", err)
	}
	if got := validation.NormalizeSymbol(" enb.to "); got != "ENB.TO" {
		t.Errorf("Expected ENB.TO, got %s", got)
	}
	if err := validation.ValidateSymbol("$$$"); err == nil {
		t.Error("Expected error for malformed symbol")
	}
}
