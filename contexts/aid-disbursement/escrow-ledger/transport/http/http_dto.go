package httptransport

type InitRequest struct {
	Admin string `json:"admin"`
}

type FundRequest struct {
	Asset  string `json:"asset"`
	From   string `json:"from"`
	Amount int64  `json:"amount"`
}

type CreatePackageRequest struct {
	ID        uint64 `json:"id"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Asset     string `json:"asset"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

type CreatePackageResponse struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

type BatchCreatePackagesRequest struct {
	Recipients []string `json:"recipients"`
	Amounts    []int64  `json:"amounts"`
	Asset      string   `json:"asset"`
	ExpiresIn  int64    `json:"expires_in"`
}

type BatchCreatePackagesResponse struct {
	IDs    []uint64 `json:"ids"`
	Status string   `json:"status"`
}

type PackageDTO struct {
	ID        uint64            `json:"id"`
	Recipient string            `json:"recipient"`
	Amount    int64             `json:"amount"`
	Asset     string            `json:"asset"`
	Status    string            `json:"status"`
	CreatedAt int64             `json:"created_at"`
	ExpiresAt int64             `json:"expires_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type GetPackageResponse struct {
	Item PackageDTO `json:"item"`
}

type PackageStatusResponse struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

type AggregatesResponse struct {
	Asset                 string `json:"asset"`
	TotalCommitted        int64  `json:"total_committed"`
	TotalClaimed          int64  `json:"total_claimed"`
	TotalExpiredCancelled int64  `json:"total_expired_cancelled"`
}

type ConfigDTO struct {
	MinAmount     int64    `json:"min_amount"`
	MaxExpiresIn  int64    `json:"max_expires_in"`
	AllowedAssets []string `json:"allowed_assets,omitempty"`
}

type DistributorRequest struct {
	Principal string `json:"principal"`
}

type ExtendExpirationRequest struct {
	AdditionalTime int64 `json:"additional_time"`
}

type WithdrawSurplusRequest struct {
	Asset  string `json:"asset"`
	Amount int64  `json:"amount"`
}

type LockedBalanceResponse struct {
	Asset  string `json:"asset"`
	Locked int64  `json:"locked"`
}

type PausedResponse struct {
	Paused bool `json:"paused"`
}

type AdminResponse struct {
	Admin string `json:"admin"`
}

type AckResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
