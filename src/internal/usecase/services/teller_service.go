package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/adapter/http/models"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/commons"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/domain"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/ledger"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/logger"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/pincode"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/session"
	"github.com/shopspring/decimal"
)

// TellerService is the call surface one authenticated caller works
// against: login opens a session, the remaining operations run against
// the session's account, logout closes it.
type TellerService struct {
	sessions *session.Manager
}

func NewTellerService(sessions *session.Manager) *TellerService {
	return &TellerService{sessions: sessions}
}

func (s *TellerService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	logger.Info("teller service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	_ = ctx
	if err := req.Validate(); err != nil {
		logger.Error("teller service login validation failed", err, nil)
		return commons.ErrorResponse[models.LoginResponse](domain.CodeValidationFailed, "validation failed", err.Error()), err
	}

	cardNumber := strings.TrimSpace(req.CardNumber)
	pin := strings.TrimSpace(req.Pin)

	sess, err := s.sessions.Login(cardNumber, pin)
	if err != nil {
		logger.Error("teller service login failed", err, logger.Fields{
			"cardNumber": cardNumber,
		})
		return commons.ErrorResponse[models.LoginResponse](domain.ErrorCode(err), "Invalid card number or PIN"), err
	}

	response := models.LoginResponse{
		SessionID:     sess.ID(),
		CardNumber:    cardNumber,
		SecurityScore: pincode.StrengthScore(pin),
	}

	logger.Info("teller service login success", logger.Fields{
		"cardNumber":    cardNumber,
		"sessionId":     response.SessionID,
		"securityScore": response.SecurityScore,
	})

	return commons.SuccessResponse("login successful", response), nil
}

func (s *TellerService) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.WithdrawResponse], error) {
	logger.Info("teller service withdraw request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	_ = ctx
	if err := req.Validate(); err != nil {
		logger.Error("teller service withdraw validation failed", err, nil)
		return commons.ErrorResponse[models.WithdrawResponse](domain.CodeValidationFailed, "validation failed", err.Error()), err
	}

	account, err := s.account(req.SessionID)
	if err != nil {
		logger.Error("teller service withdraw session lookup failed", err, nil)
		return commons.ErrorResponse[models.WithdrawResponse](domain.ErrorCode(err), "session is not active"), err
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		logger.Error("teller service withdraw parse amount failed", err, nil)
		return commons.ErrorResponse[models.WithdrawResponse](domain.ErrorCode(err), "invalid amount entered"), err
	}

	receipt, err := account.Withdraw(amount)
	if err != nil {
		logger.Error("teller service withdraw rejected", err, logger.Fields{
			"cardNumber": account.ID(),
			"amount":     amount.StringFixed(2),
		})
		return commons.ErrorResponse[models.WithdrawResponse](domain.ErrorCode(err), "invalid withdrawal amount or insufficient funds"), err
	}

	response := models.WithdrawResponse{
		Amount:     receipt.Amount.StringFixed(2),
		Fee:        receipt.Fee.StringFixed(2),
		NewBalance: receipt.NewBalance.StringFixed(2),
	}

	logger.Info("teller service withdraw success", logger.Fields{
		"cardNumber": account.ID(),
		"amount":     response.Amount,
		"fee":        response.Fee,
		"newBalance": response.NewBalance,
	})

	return commons.SuccessResponse("withdrawal successful", response), nil
}

func (s *TellerService) Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.DepositResponse], error) {
	logger.Info("teller service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	_ = ctx
	if err := req.Validate(); err != nil {
		logger.Error("teller service deposit validation failed", err, nil)
		return commons.ErrorResponse[models.DepositResponse](domain.CodeValidationFailed, "validation failed", err.Error()), err
	}

	account, err := s.account(req.SessionID)
	if err != nil {
		logger.Error("teller service deposit session lookup failed", err, nil)
		return commons.ErrorResponse[models.DepositResponse](domain.ErrorCode(err), "session is not active"), err
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		logger.Error("teller service deposit parse amount failed", err, nil)
		return commons.ErrorResponse[models.DepositResponse](domain.ErrorCode(err), "invalid amount entered"), err
	}

	receipt, err := account.Deposit(amount)
	if err != nil {
		logger.Error("teller service deposit rejected", err, logger.Fields{
			"cardNumber": account.ID(),
			"amount":     amount.StringFixed(2),
		})
		return commons.ErrorResponse[models.DepositResponse](domain.ErrorCode(err), "invalid deposit amount"), err
	}

	response := models.DepositResponse{
		Amount:     receipt.Amount.StringFixed(2),
		NewBalance: receipt.NewBalance.StringFixed(2),
	}

	logger.Info("teller service deposit success", logger.Fields{
		"cardNumber": account.ID(),
		"amount":     response.Amount,
		"newBalance": response.NewBalance,
	})

	return commons.SuccessResponse("deposit successful", response), nil
}

func (s *TellerService) Balance(ctx context.Context, sessionID string) (commons.Response[models.BalanceResponse], error) {
	logger.Info("teller service balance request", logger.Fields{
		"sessionId": sessionID,
	})

	_ = ctx
	if strings.TrimSpace(sessionID) == "" {
		err := fmt.Errorf("sessionId is required")
		return commons.ErrorResponse[models.BalanceResponse](domain.CodeValidationFailed, "validation failed", err.Error()), err
	}

	account, err := s.account(sessionID)
	if err != nil {
		logger.Error("teller service balance session lookup failed", err, nil)
		return commons.ErrorResponse[models.BalanceResponse](domain.ErrorCode(err), "session is not active"), err
	}

	response := models.BalanceResponse{
		CardNumber: account.ID(),
		Balance:    account.Balance().StringFixed(2),
	}

	logger.Info("teller service balance success", logger.Fields{
		"cardNumber": response.CardNumber,
		"balance":    response.Balance,
	})

	return commons.SuccessResponse("balance fetched successfully", response), nil
}

func (s *TellerService) History(ctx context.Context, sessionID string) (commons.Response[models.HistoryResponse], error) {
	logger.Info("teller service history request", logger.Fields{
		"sessionId": sessionID,
	})

	_ = ctx
	if strings.TrimSpace(sessionID) == "" {
		err := fmt.Errorf("sessionId is required")
		return commons.ErrorResponse[models.HistoryResponse](domain.CodeValidationFailed, "validation failed", err.Error()), err
	}

	account, err := s.account(sessionID)
	if err != nil {
		logger.Error("teller service history session lookup failed", err, nil)
		return commons.ErrorResponse[models.HistoryResponse](domain.ErrorCode(err), "session is not active"), err
	}

	transactions := account.History()
	entries := make([]models.TransactionEntry, 0, len(transactions))
	for _, tx := range transactions {
		entries = append(entries, models.TransactionEntry{
			Kind:      string(tx.Kind),
			Amount:    tx.Amount.StringFixed(2),
			Timestamp: tx.Timestamp.Format(time.RFC3339),
		})
	}

	response := models.HistoryResponse{
		CardNumber:   account.ID(),
		Transactions: entries,
	}

	message := "transaction history fetched successfully"
	if len(entries) == 0 {
		message = "no transaction history available"
	}

	logger.Info("teller service history success", logger.Fields{
		"cardNumber":   response.CardNumber,
		"transactions": len(entries),
	})

	return commons.SuccessResponse(message, response), nil
}

func (s *TellerService) ChangePin(ctx context.Context, req models.ChangePinRequest) (commons.Response[models.ChangePinResponse], error) {
	logger.Info("teller service change pin request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	_ = ctx
	if err := req.Validate(); err != nil {
		logger.Error("teller service change pin validation failed", err, nil)
		return commons.ErrorResponse[models.ChangePinResponse](domain.CodeValidationFailed, "validation failed", err.Error()), err
	}

	account, err := s.account(req.SessionID)
	if err != nil {
		logger.Error("teller service change pin session lookup failed", err, nil)
		return commons.ErrorResponse[models.ChangePinResponse](domain.ErrorCode(err), "session is not active"), err
	}

	if err := account.ChangePin(strings.TrimSpace(req.CurrentPin), strings.TrimSpace(req.NewPin)); err != nil {
		logger.Error("teller service change pin rejected", err, logger.Fields{
			"cardNumber": account.ID(),
		})
		message := "failed to change pin"
		switch domain.ErrorCode(err) {
		case domain.CodeAuthFailed:
			message = "incorrect current PIN"
		case domain.CodeInvalidPinFormat:
			message = "new PIN must be exactly 4 digits"
		}
		return commons.ErrorResponse[models.ChangePinResponse](domain.ErrorCode(err), message), err
	}

	logger.Info("teller service change pin success", logger.Fields{
		"cardNumber": account.ID(),
	})

	return commons.SuccessResponse("pin changed successfully", models.ChangePinResponse{Changed: true}), nil
}

func (s *TellerService) Logout(ctx context.Context, req models.LogoutRequest) (commons.Response[models.LogoutResponse], error) {
	logger.Info("teller service logout request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	_ = ctx
	if err := req.Validate(); err != nil {
		logger.Error("teller service logout validation failed", err, nil)
		return commons.ErrorResponse[models.LogoutResponse](domain.CodeValidationFailed, "validation failed", err.Error()), err
	}

	// Repeated logouts are deliberately a no-op so callers can retry
	// safely.
	s.sessions.Logout(strings.TrimSpace(req.SessionID))

	logger.Info("teller service logout success", logger.Fields{
		"sessionId": req.SessionID,
	})

	return commons.SuccessResponse("logout successful", models.LogoutResponse{LoggedOut: true}), nil
}

func (s *TellerService) account(sessionID string) (*ledger.Account, error) {
	sess, err := s.sessions.Get(strings.TrimSpace(sessionID))
	if err != nil {
		return nil, err
	}
	return sess.Account()
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, strings.TrimSpace(raw))
	}
	return amount, nil
}
