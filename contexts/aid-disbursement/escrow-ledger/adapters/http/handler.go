package httpadapter

import (
	"context"
	"log/slog"

	"aidvault/contexts/aid-disbursement/escrow-ledger/application"
	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	httptransport "aidvault/contexts/aid-disbursement/escrow-ledger/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) InitHandler(ctx context.Context, req httptransport.InitRequest) (httptransport.AckResponse, error) {
	if err := h.Service.Init(ctx, req.Admin); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) FundHandler(ctx context.Context, req httptransport.FundRequest) (httptransport.AckResponse, error) {
	if err := h.Service.Fund(ctx, req.Asset, req.From, req.Amount); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) CreatePackageHandler(
	ctx context.Context,
	operator string,
	req httptransport.CreatePackageRequest,
) (httptransport.CreatePackageResponse, error) {
	id, err := h.Service.CreatePackage(ctx, operator, req.ID, req.Recipient, req.Amount, req.Asset, req.ExpiresAt)
	if err != nil {
		return httptransport.CreatePackageResponse{}, err
	}
	return httptransport.CreatePackageResponse{ID: id, Status: "success"}, nil
}

func (h Handler) BatchCreatePackagesHandler(
	ctx context.Context,
	operator string,
	req httptransport.BatchCreatePackagesRequest,
) (httptransport.BatchCreatePackagesResponse, error) {
	ids, err := h.Service.BatchCreatePackages(ctx, operator, req.Recipients, req.Amounts, req.Asset, req.ExpiresIn)
	if err != nil {
		return httptransport.BatchCreatePackagesResponse{}, err
	}
	return httptransport.BatchCreatePackagesResponse{IDs: ids, Status: "success"}, nil
}

func (h Handler) ClaimHandler(ctx context.Context, id uint64) (httptransport.AckResponse, error) {
	if err := h.Service.Claim(ctx, id); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) DisburseHandler(ctx context.Context, id uint64) (httptransport.AckResponse, error) {
	if err := h.Service.Disburse(ctx, id); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) RevokeHandler(ctx context.Context, id uint64) (httptransport.AckResponse, error) {
	if err := h.Service.Revoke(ctx, id); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) CancelPackageHandler(ctx context.Context, id uint64) (httptransport.AckResponse, error) {
	if err := h.Service.CancelPackage(ctx, id); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) RefundHandler(ctx context.Context, id uint64) (httptransport.AckResponse, error) {
	if err := h.Service.Refund(ctx, id); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) ExtendExpirationHandler(
	ctx context.Context,
	id uint64,
	req httptransport.ExtendExpirationRequest,
) (httptransport.AckResponse, error) {
	if err := h.Service.ExtendExpiration(ctx, id, req.AdditionalTime); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) WithdrawSurplusHandler(
	ctx context.Context,
	req httptransport.WithdrawSurplusRequest,
) (httptransport.AckResponse, error) {
	if err := h.Service.WithdrawSurplus(ctx, req.Amount, req.Asset); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) AddDistributorHandler(ctx context.Context, req httptransport.DistributorRequest) (httptransport.AckResponse, error) {
	if err := h.Service.AddDistributor(ctx, req.Principal); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) RemoveDistributorHandler(ctx context.Context, req httptransport.DistributorRequest) (httptransport.AckResponse, error) {
	if err := h.Service.RemoveDistributor(ctx, req.Principal); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) SetConfigHandler(ctx context.Context, req httptransport.ConfigDTO) (httptransport.AckResponse, error) {
	err := h.Service.SetConfig(ctx, entities.Config{
		MinAmount:     req.MinAmount,
		MaxExpiresIn:  req.MaxExpiresIn,
		AllowedAssets: req.AllowedAssets,
	})
	if err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) PauseHandler(ctx context.Context) (httptransport.AckResponse, error) {
	if err := h.Service.Pause(ctx); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) UnpauseHandler(ctx context.Context) (httptransport.AckResponse, error) {
	if err := h.Service.Unpause(ctx); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) GetPackageHandler(ctx context.Context, id uint64) (httptransport.GetPackageResponse, error) {
	pkg, err := h.Service.GetPackage(ctx, id)
	if err != nil {
		return httptransport.GetPackageResponse{}, err
	}
	return httptransport.GetPackageResponse{Item: toDTO(pkg)}, nil
}

func (h Handler) ViewStatusHandler(ctx context.Context, id uint64) (httptransport.PackageStatusResponse, error) {
	status, err := h.Service.ViewStatus(ctx, id)
	if err != nil {
		return httptransport.PackageStatusResponse{}, err
	}
	return httptransport.PackageStatusResponse{ID: id, Status: string(status)}, nil
}

func (h Handler) GetAggregatesHandler(ctx context.Context, asset string) (httptransport.AggregatesResponse, error) {
	agg, err := h.Service.GetAggregates(ctx, asset)
	if err != nil {
		return httptransport.AggregatesResponse{}, err
	}
	return httptransport.AggregatesResponse{
		Asset:                 asset,
		TotalCommitted:        agg.TotalCommitted,
		TotalClaimed:          agg.TotalClaimed,
		TotalExpiredCancelled: agg.TotalExpiredCancelled,
	}, nil
}

func (h Handler) GetConfigHandler(ctx context.Context) (httptransport.ConfigDTO, error) {
	cfg, err := h.Service.GetConfig(ctx)
	if err != nil {
		return httptransport.ConfigDTO{}, err
	}
	return httptransport.ConfigDTO{
		MinAmount:     cfg.MinAmount,
		MaxExpiresIn:  cfg.MaxExpiresIn,
		AllowedAssets: cfg.AllowedAssets,
	}, nil
}

func (h Handler) IsPausedHandler(ctx context.Context) (httptransport.PausedResponse, error) {
	paused, err := h.Service.IsPaused(ctx)
	if err != nil {
		return httptransport.PausedResponse{}, err
	}
	return httptransport.PausedResponse{Paused: paused}, nil
}

func (h Handler) GetAdminHandler(ctx context.Context) (httptransport.AdminResponse, error) {
	admin, err := h.Service.GetAdmin(ctx)
	if err != nil {
		return httptransport.AdminResponse{}, err
	}
	return httptransport.AdminResponse{Admin: admin}, nil
}

func (h Handler) LockedBalanceHandler(ctx context.Context, asset string) (httptransport.LockedBalanceResponse, error) {
	locked, err := h.Service.LockedBalance(ctx, asset)
	if err != nil {
		return httptransport.LockedBalanceResponse{}, err
	}
	return httptransport.LockedBalanceResponse{Asset: asset, Locked: locked}, nil
}

func toDTO(pkg entities.Package) httptransport.PackageDTO {
	return httptransport.PackageDTO{
		ID:        pkg.ID,
		Recipient: pkg.Recipient,
		Amount:    pkg.Amount,
		Asset:     pkg.Asset,
		Status:    string(pkg.Status),
		CreatedAt: pkg.CreatedAt,
		ExpiresAt: pkg.ExpiresAt,
		Metadata:  pkg.Metadata,
	}
}
