package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	escrowledger "aidvault/contexts/aid-disbursement/escrow-ledger"
	"aidvault/contexts/aid-disbursement/escrow-ledger/adapters/auth"
	escrowerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
	escrowhttp "aidvault/contexts/aid-disbursement/escrow-ledger/transport/http"
	_ "aidvault/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	escrow escrowledger.Module
}

func New(escrow escrowledger.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		escrow: escrow,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/escrow/init", s.handleInit)
	s.mux.HandleFunc("GET /v1/escrow/admin", s.handleGetAdmin)
	s.mux.HandleFunc("POST /v1/escrow/fund", s.handleFund)
	s.mux.HandleFunc("POST /v1/escrow/surplus/withdraw", s.handleWithdrawSurplus)

	s.mux.HandleFunc("POST /v1/escrow/packages", s.handleCreatePackage)
	s.mux.HandleFunc("POST /v1/escrow/packages/batch", s.handleBatchCreatePackages)
	s.mux.HandleFunc("GET /v1/escrow/packages/{package_id}", s.handleGetPackage)
	s.mux.HandleFunc("GET /v1/escrow/packages/{package_id}/status", s.handleViewStatus)
	s.mux.HandleFunc("POST /v1/escrow/packages/{package_id}/claim", s.handleClaim)
	s.mux.HandleFunc("POST /v1/escrow/packages/{package_id}/disburse", s.handleDisburse)
	s.mux.HandleFunc("POST /v1/escrow/packages/{package_id}/revoke", s.handleRevoke)
	s.mux.HandleFunc("POST /v1/escrow/packages/{package_id}/cancel", s.handleCancelPackage)
	s.mux.HandleFunc("POST /v1/escrow/packages/{package_id}/refund", s.handleRefund)
	s.mux.HandleFunc("POST /v1/escrow/packages/{package_id}/extend", s.handleExtendExpiration)

	s.mux.HandleFunc("POST /v1/escrow/distributors/add", s.handleAddDistributor)
	s.mux.HandleFunc("POST /v1/escrow/distributors/remove", s.handleRemoveDistributor)

	s.mux.HandleFunc("GET /v1/escrow/config", s.handleGetConfig)
	s.mux.HandleFunc("PUT /v1/escrow/config", s.handleSetConfig)
	s.mux.HandleFunc("POST /v1/escrow/pause", s.handlePause)
	s.mux.HandleFunc("POST /v1/escrow/unpause", s.handleUnpause)
	s.mux.HandleFunc("GET /v1/escrow/paused", s.handleIsPaused)

	s.mux.HandleFunc("GET /v1/escrow/aggregates", s.handleGetAggregates)
	s.mux.HandleFunc("GET /v1/escrow/locked", s.handleLockedBalance)
}

// callerContext attaches the attested caller identity from the gateway to the
// request context. Operations that require authorization fail with
// ErrNotAuthorized when the header is absent or names a different principal.
func callerContext(r *http.Request) (context.Context, bool) {
	caller := strings.TrimSpace(r.Header.Get("X-Caller-Id"))
	if caller == "" {
		return r.Context(), false
	}
	return auth.WithPrincipal(r.Context(), caller), true
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req escrowhttp.InitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.InitHandler(r.Context(), req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAdmin(w http.ResponseWriter, r *http.Request) {
	resp, err := s.escrow.Handler.GetAdminHandler(r.Context())
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	ctx, ok := callerContext(r)
	if !ok {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}

	var req escrowhttp.FundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.FundHandler(ctx, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawSurplus(w http.ResponseWriter, r *http.Request) {
	ctx, ok := callerContext(r)
	if !ok {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}

	var req escrowhttp.WithdrawSurplusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.WithdrawSurplusHandler(ctx, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	caller := strings.TrimSpace(r.Header.Get("X-Caller-Id"))
	if caller == "" {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}

	var req escrowhttp.CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.CreatePackageHandler(
		auth.WithPrincipal(r.Context(), caller),
		caller,
		req,
	)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleBatchCreatePackages(w http.ResponseWriter, r *http.Request) {
	caller := strings.TrimSpace(r.Header.Get("X-Caller-Id"))
	if caller == "" {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}

	var req escrowhttp.BatchCreatePackagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.BatchCreatePackagesHandler(
		auth.WithPrincipal(r.Context(), caller),
		caller,
		req,
	)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePackageID(w, r)
	if !ok {
		return
	}
	resp, err := s.escrow.Handler.GetPackageHandler(r.Context(), id)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleViewStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePackageID(w, r)
	if !ok {
		return
	}
	resp, err := s.escrow.Handler.ViewStatusHandler(r.Context(), id)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	s.handlePackageAction(w, r, s.escrow.Handler.ClaimHandler)
}

func (s *Server) handleDisburse(w http.ResponseWriter, r *http.Request) {
	s.handlePackageAction(w, r, s.escrow.Handler.DisburseHandler)
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	s.handlePackageAction(w, r, s.escrow.Handler.RevokeHandler)
}

func (s *Server) handleCancelPackage(w http.ResponseWriter, r *http.Request) {
	s.handlePackageAction(w, r, s.escrow.Handler.CancelPackageHandler)
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	s.handlePackageAction(w, r, s.escrow.Handler.RefundHandler)
}

func (s *Server) handleExtendExpiration(w http.ResponseWriter, r *http.Request) {
	ctx, ok := callerContext(r)
	if !ok {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}
	id, ok := parsePackageID(w, r)
	if !ok {
		return
	}

	var req escrowhttp.ExtendExpirationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.ExtendExpirationHandler(ctx, id, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddDistributor(w http.ResponseWriter, r *http.Request) {
	s.handleDistributorChange(w, r, s.escrow.Handler.AddDistributorHandler)
}

func (s *Server) handleRemoveDistributor(w http.ResponseWriter, r *http.Request) {
	s.handleDistributorChange(w, r, s.escrow.Handler.RemoveDistributorHandler)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	resp, err := s.escrow.Handler.GetConfigHandler(r.Context())
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	ctx, ok := callerContext(r)
	if !ok {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}

	var req escrowhttp.ConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.SetConfigHandler(ctx, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.handleGuardAction(w, r, s.escrow.Handler.PauseHandler)
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	s.handleGuardAction(w, r, s.escrow.Handler.UnpauseHandler)
}

func (s *Server) handleIsPaused(w http.ResponseWriter, r *http.Request) {
	resp, err := s.escrow.Handler.IsPausedHandler(r.Context())
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAggregates(w http.ResponseWriter, r *http.Request) {
	asset := r.URL.Query().Get("asset")
	if asset == "" {
		writeEscrowError(w, http.StatusBadRequest, "missing_asset", "asset query parameter is required")
		return
	}
	resp, err := s.escrow.Handler.GetAggregatesHandler(r.Context(), asset)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLockedBalance(w http.ResponseWriter, r *http.Request) {
	asset := r.URL.Query().Get("asset")
	if asset == "" {
		writeEscrowError(w, http.StatusBadRequest, "missing_asset", "asset query parameter is required")
		return
	}
	resp, err := s.escrow.Handler.LockedBalanceHandler(r.Context(), asset)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePackageAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, id uint64) (escrowhttp.AckResponse, error),
) {
	ctx, ok := callerContext(r)
	if !ok {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}
	id, ok := parsePackageID(w, r)
	if !ok {
		return
	}
	resp, err := action(ctx, id)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGuardAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context) (escrowhttp.AckResponse, error),
) {
	ctx, ok := callerContext(r)
	if !ok {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}
	resp, err := action(ctx)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistributorChange(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, req escrowhttp.DistributorRequest) (escrowhttp.AckResponse, error),
) {
	ctx, ok := callerContext(r)
	if !ok {
		writeEscrowError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return
	}

	var req escrowhttp.DistributorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := action(ctx, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parsePackageID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("package_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_package_id", "package_id must be an unsigned integer")
		return 0, false
	}
	return id, true
}

func writeEscrowDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, escrowerrors.ErrNotInitialized):
		writeEscrowError(w, http.StatusConflict, "not_initialized", err.Error())
	case errors.Is(err, escrowerrors.ErrAlreadyInitialized):
		writeEscrowError(w, http.StatusConflict, "already_initialized", err.Error())
	case errors.Is(err, escrowerrors.ErrNotAuthorized):
		writeEscrowError(w, http.StatusForbidden, "not_authorized", err.Error())
	case errors.Is(err, escrowerrors.ErrInvalidAmount):
		writeEscrowError(w, http.StatusUnprocessableEntity, "invalid_amount", err.Error())
	case errors.Is(err, escrowerrors.ErrPackageNotFound):
		writeEscrowError(w, http.StatusNotFound, "package_not_found", err.Error())
	case errors.Is(err, escrowerrors.ErrPackageNotActive):
		writeEscrowError(w, http.StatusConflict, "package_not_active", err.Error())
	case errors.Is(err, escrowerrors.ErrPackageExpired):
		writeEscrowError(w, http.StatusGone, "package_expired", err.Error())
	case errors.Is(err, escrowerrors.ErrPackageNotExpired):
		writeEscrowError(w, http.StatusConflict, "package_not_expired", err.Error())
	case errors.Is(err, escrowerrors.ErrInsufficientFunds):
		writeEscrowError(w, http.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, escrowerrors.ErrInsufficientSurplus):
		writeEscrowError(w, http.StatusConflict, "insufficient_surplus", err.Error())
	case errors.Is(err, escrowerrors.ErrPackageIDExists):
		writeEscrowError(w, http.StatusConflict, "package_id_exists", err.Error())
	case errors.Is(err, escrowerrors.ErrInvalidState):
		writeEscrowError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, escrowerrors.ErrMismatchedArrays):
		writeEscrowError(w, http.StatusBadRequest, "mismatched_arrays", err.Error())
	case errors.Is(err, escrowerrors.ErrContractPaused):
		writeEscrowError(w, http.StatusConflict, "paused", err.Error())
	default:
		writeEscrowError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEscrowError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, escrowhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
