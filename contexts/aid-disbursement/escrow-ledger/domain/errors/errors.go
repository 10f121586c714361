package errors

import "errors"

var (
	ErrNotInitialized     = errors.New("escrow ledger is not initialized")
	ErrAlreadyInitialized = errors.New("escrow ledger is already initialized")
	ErrNotAuthorized      = errors.New("caller is not authorized for this operation")
	ErrInvalidAmount      = errors.New("amount is invalid")
	ErrPackageNotFound    = errors.New("package not found")
	ErrPackageNotActive   = errors.New("package is not active")
	ErrPackageExpired     = errors.New("package is expired")
	ErrPackageNotExpired  = errors.New("package is not expired")
	ErrInsufficientFunds  = errors.New("pool balance cannot cover locked funds plus requested amount")
	ErrInsufficientSurplus = errors.New("requested amount exceeds unlocked surplus")
	ErrPackageIDExists    = errors.New("package id already exists")
	ErrInvalidState       = errors.New("state transition is not allowed")
	ErrMismatchedArrays   = errors.New("recipients and amounts have different lengths")
	ErrContractPaused     = errors.New("escrow ledger is paused")
)
