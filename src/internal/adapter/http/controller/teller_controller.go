package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/adapter/http/models"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/commons"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/domain"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/logger"
)

type TellerService interface {
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)
	Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.WithdrawResponse], error)
	Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.DepositResponse], error)
	Balance(ctx context.Context, sessionID string) (commons.Response[models.BalanceResponse], error)
	History(ctx context.Context, sessionID string) (commons.Response[models.HistoryResponse], error)
	ChangePin(ctx context.Context, req models.ChangePinRequest) (commons.Response[models.ChangePinResponse], error)
	Logout(ctx context.Context, req models.LogoutRequest) (commons.Response[models.LogoutResponse], error)
}

type TellerController struct {
	service TellerService
}

func NewTellerController(service TellerService) *TellerController {
	return &TellerController{service: service}
}

func (c *TellerController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler, loginThrottle func(http.Handler) http.Handler) {
	login := http.Handler(http.HandlerFunc(c.login))
	if loginThrottle != nil {
		login = loginThrottle(login)
	}

	routes := map[string]http.Handler{
		"/login":      login,
		"/withdraw":   http.HandlerFunc(c.withdraw),
		"/deposit":    http.HandlerFunc(c.deposit),
		"/balance":    http.HandlerFunc(c.balance),
		"/history":    http.HandlerFunc(c.history),
		"/change-pin": http.HandlerFunc(c.changePin),
		"/logout":     http.HandlerFunc(c.logout),
	}

	for path, handler := range routes {
		if authMiddleware != nil {
			handler = authMiddleware(handler)
		}
		mux.Handle(path, handler)
	}
}

func (c *TellerController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.LoginResponse](domain.CodeValidationFailed, "method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LoginResponse](domain.CodeValidationFailed, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Login(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForCode(response.Code)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TellerController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.WithdrawResponse](domain.CodeValidationFailed, "method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.WithdrawResponse](domain.CodeValidationFailed, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Withdraw(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForCode(response.Code)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TellerController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.DepositResponse](domain.CodeValidationFailed, "method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DepositResponse](domain.CodeValidationFailed, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Deposit(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForCode(response.Code)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TellerController) balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.BalanceResponse](domain.CodeValidationFailed, "method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.Balance(r.Context(), r.URL.Query().Get("sessionId"))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForCode(response.Code)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TellerController) history(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.HistoryResponse](domain.CodeValidationFailed, "method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.History(r.Context(), r.URL.Query().Get("sessionId"))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForCode(response.Code)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TellerController) changePin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.ChangePinResponse](domain.CodeValidationFailed, "method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.ChangePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ChangePinResponse](domain.CodeValidationFailed, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.ChangePin(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForCode(response.Code)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TellerController) logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.LogoutResponse](domain.CodeValidationFailed, "method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LogoutResponse](domain.CodeValidationFailed, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Logout(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForCode(response.Code)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func statusForCode(code string) int {
	switch code {
	case domain.CodeAuthFailed, domain.CodeSessionClosed:
		return http.StatusUnauthorized
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeValidationFailed, domain.CodeInvalidAmount, domain.CodePolicyViolation, domain.CodeInvalidPinFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
