package application

import (
	"context"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/services"
)

func (s Service) GetPackage(ctx context.Context, id uint64) (entities.Package, error) {
	return s.Repo.GetPackage(ctx, id)
}

// ViewStatus reports the effective status: a Created package past its
// bounded expiry reads as Expired. Nothing is persisted; only claim and
// refund materialize the transition.
func (s Service) ViewStatus(ctx context.Context, id uint64) (entities.PackageStatus, error) {
	pkg, err := s.Repo.GetPackage(ctx, id)
	if err != nil {
		return "", err
	}
	effective, _ := services.Materialize(pkg, s.nowUnix())
	return effective.Status, nil
}

// GetAggregates walks the full aggregation index and buckets every package
// of the asset by stored status. Linear in total packages ever created;
// meant for periodic analytics, not a hot path.
func (s Service) GetAggregates(ctx context.Context, asset string) (entities.Aggregates, error) {
	ids, err := s.Repo.ListIndexedPackageIDs(ctx)
	if err != nil {
		return entities.Aggregates{}, err
	}

	var agg entities.Aggregates
	for _, id := range ids {
		pkg, err := s.Repo.GetPackage(ctx, id)
		if err != nil {
			return entities.Aggregates{}, err
		}
		if pkg.Asset != asset {
			continue
		}
		switch pkg.Status {
		case entities.PackageStatusCreated:
			agg.TotalCommitted += pkg.Amount
		case entities.PackageStatusClaimed:
			agg.TotalClaimed += pkg.Amount
		case entities.PackageStatusExpired, entities.PackageStatusCancelled, entities.PackageStatusRefunded:
			agg.TotalExpiredCancelled += pkg.Amount
		}
	}
	return agg, nil
}

func (s Service) GetConfig(ctx context.Context) (entities.Config, error) {
	return s.Repo.GetConfig(ctx)
}

func (s Service) IsPaused(ctx context.Context) (bool, error) {
	return s.Repo.IsPaused(ctx)
}

// LockedBalance exposes the per-asset locked total for operational checks.
func (s Service) LockedBalance(ctx context.Context, asset string) (int64, error) {
	return s.Repo.LockedBalance(ctx, asset)
}
