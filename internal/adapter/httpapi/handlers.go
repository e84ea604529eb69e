package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
	"github.com/hindsightapp/hindsight-backend/internal/usecase/purchase"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "hindsight-backend",
	})
}

// handleCreatePurchase handles POST /api/purchases
func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.FiatAmount)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid fiat_amount format")
		return
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid purchase_date format, expected YYYY-MM-DD")
		return
	}

	input := purchase.CreateInput{
		UserName:     req.UserName,
		ProductName:  req.ProductName,
		ImageURL:     req.ImageURL,
		PurchaseDate: purchaseDate,
		FiatAmount:   amount,
		Currency:     domain.Currency(req.Currency),
	}

	created, err := s.purchases.Create(r.Context(), input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toPurchaseResponse(created))
}

// handleListPurchases handles GET /api/purchases
func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.purchases.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	responses := make([]purchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		responses = append(responses, toPurchaseResponse(p))
	}

	s.writeJSON(w, http.StatusOK, responses)
}

// handleGetPurchase handles GET /api/purchases/{id}
func (s *Server) handleGetPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	p, err := s.purchases.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toPurchaseResponse(p))
}

// handleGetValuation handles GET /api/purchases/{id}/valuation
func (s *Server) handleGetValuation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	p, err := s.purchases.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	v, err := s.valuations.Compute(r.Context(), p)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toValuationResponse(v))
}

// handleCurrentRate handles GET /api/rates/current?currency=EUR
func (s *Server) handleCurrentRate(w http.ResponseWriter, r *http.Request) {
	currency := domain.Currency(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = domain.CurrencyUSD
	}
	if !currency.Supported() {
		s.writeError(w, http.StatusBadRequest, "currency "+string(currency)+" is not supported")
		return
	}

	rate, err := s.rates.CurrentRate(r.Context(), currency)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, rateResponse{
		Currency: string(currency),
		Rate:     rate.String(),
	})
}

// handleListCurrencies handles GET /api/currencies
func (s *Server) handleListCurrencies(w http.ResponseWriter, r *http.Request) {
	responses := make([]currencyResponse, 0, len(domain.Currencies))
	for _, c := range domain.Currencies {
		responses = append(responses, currencyResponse{
			Code:   string(c),
			Symbol: c.Symbol(),
		})
	}

	s.writeJSON(w, http.StatusOK, responses)
}

// handleDetectCurrency handles GET /api/currencies/detect?country=DE
func (s *Server) handleDetectCurrency(w http.ResponseWriter, r *http.Request) {
	currency := domain.CurrencyForCountry(r.URL.Query().Get("country"))

	s.writeJSON(w, http.StatusOK, currencyResponse{
		Code:   string(currency),
		Symbol: currency.Symbol(),
	})
}

// writeDomainError maps domain errors to HTTP status codes
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPurchaseNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidPurchase), errors.Is(err, domain.ErrUnsupportedCurrency):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error().Err(err).Msg("Unhandled internal error")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
