package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/domain"
)

// dateLayout is the format of the start and end query parameters.
const dateLayout = "2006-01-02"

// AccountService defines the account lookups the handlers need.
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, agency, number string) (*domain.Account, error)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:     message,
		Code:      code,
		Retryable: status == http.StatusServiceUnavailable,
	})
}

// writeDomainError maps err to a status and writes it. Infrastructure details
// are logged, never returned.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapDomainError(err)

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		writeError(w, status, string(domainErr.Kind), domainErr.Message)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")

	if status == http.StatusServiceUnavailable {
		writeError(w, status, string(domain.KindInfrastructure), "temporarily unavailable, retry later")
		return
	}
	writeError(w, status, "INTERNAL", "internal server error")
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	if errors.Is(err, domain.ErrInfrastructure) {
		return http.StatusServiceUnavailable
	}

	switch domain.KindOf(err) {
	case domain.KindInvalidAmount, domain.KindInvalidInput, domain.KindInvalidDateRange, domain.KindInvalidType:
		return http.StatusBadRequest
	case domain.KindNotFound, domain.KindDestinationNotFound, domain.KindDestinationClientNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindLimitExceeded,
		domain.KindNotAMultipleOfTen,
		domain.KindBelowMinimum,
		domain.KindSalaryAccountBlocked,
		domain.KindOutsideAllowedWindow,
		domain.KindInsufficientFunds,
		domain.KindSameAccount,
		domain.KindAgencyBlocked,
		domain.KindLowIncomeLimitExceeded,
		domain.KindBelowMinimumFII,
		domain.KindBelowMinimumCDB:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidInput), "invalid request body: "+err.Error())
		return false
	}
	return true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateRange reads the optional start and end query parameters.
func parseDateRange(r *http.Request) (domain.DateRange, error) {
	var rng domain.DateRange

	for _, p := range []struct {
		key  string
		dest **time.Time
	}{
		{"start", &rng.Start},
		{"end", &rng.End},
	} {
		raw := r.URL.Query().Get(p.key)
		if raw == "" {
			continue
		}

		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("%s must be a date like %s", p.key, dateLayout)
		}
		*p.dest = &day
	}

	return rng, nil
}

// currentUser returns the authenticated user or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return nil, false
	}
	return user, true
}

// currentClient returns the authenticated client and a fresh snapshot of the
// client's account. Managers get 403.
func currentClient(w http.ResponseWriter, r *http.Request, accounts AccountService) (*domain.User, *domain.Account, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, nil, false
	}

	if !user.IsClient() {
		writeDomainError(w, r, domain.ErrInsufficientRole)
		return nil, nil, false
	}

	account, err := accounts.GetAccount(r.Context(), user.AccountID())
	if err != nil {
		writeDomainError(w, r, err)
		return nil, nil, false
	}

	return user, account, true
}
