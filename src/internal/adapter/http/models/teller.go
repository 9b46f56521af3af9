package models

import (
	"errors"
	"strings"
)

type LoginRequest struct {
	CardNumber string `json:"cardNumber"`
	Pin        string `json:"pin"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.CardNumber) == "" {
		errs = append(errs, "cardNumber is required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type LoginResponse struct {
	SessionID     string `json:"sessionId"`
	CardNumber    string `json:"cardNumber"`
	SecurityScore int    `json:"securityScore"`
}

type WithdrawRequest struct {
	SessionID string `json:"sessionId"`
	Amount    string `json:"amount"`
}

func (r WithdrawRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.SessionID) == "" {
		errs = append(errs, "sessionId is required")
	}
	if strings.TrimSpace(r.Amount) == "" {
		errs = append(errs, "amount is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type WithdrawResponse struct {
	Amount     string `json:"amount"`
	Fee        string `json:"fee"`
	NewBalance string `json:"newBalance"`
}

type DepositRequest struct {
	SessionID string `json:"sessionId"`
	Amount    string `json:"amount"`
}

func (r DepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.SessionID) == "" {
		errs = append(errs, "sessionId is required")
	}
	if strings.TrimSpace(r.Amount) == "" {
		errs = append(errs, "amount is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type DepositResponse struct {
	Amount     string `json:"amount"`
	NewBalance string `json:"newBalance"`
}

type BalanceResponse struct {
	CardNumber string `json:"cardNumber"`
	Balance    string `json:"balance"`
}

type TransactionEntry struct {
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
}

type HistoryResponse struct {
	CardNumber   string             `json:"cardNumber"`
	Transactions []TransactionEntry `json:"transactions"`
}

type ChangePinRequest struct {
	SessionID  string `json:"sessionId"`
	CurrentPin string `json:"currentPin"`
	NewPin     string `json:"newPin"`
}

func (r ChangePinRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.SessionID) == "" {
		errs = append(errs, "sessionId is required")
	}
	if strings.TrimSpace(r.CurrentPin) == "" {
		errs = append(errs, "currentPin is required")
	}
	if strings.TrimSpace(r.NewPin) == "" {
		errs = append(errs, "newPin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type ChangePinResponse struct {
	Changed bool `json:"changed"`
}

type LogoutRequest struct {
	SessionID string `json:"sessionId"`
}

func (r LogoutRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return errors.New("sessionId is required")
	}

	return nil
}

type LogoutResponse struct {
	LoggedOut bool `json:"loggedOut"`
}
