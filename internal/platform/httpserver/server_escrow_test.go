package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	escrowledger "aidvault/contexts/aid-disbursement/escrow-ledger"
)

func newTestServer(t *testing.T) (*Server, escrowledger.Module) {
	t.Helper()
	module := escrowledger.NewInMemoryModule(nil)
	return New(module, nil, ""), module
}

func doJSON(t *testing.T, server *Server, method, path, caller string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller-Id", caller)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func setupLedger(t *testing.T, server *Server, module escrowledger.Module) {
	t.Helper()
	if rr := doJSON(t, server, http.MethodPost, "/v1/escrow/init", "", `{"admin":"admin-1"}`); rr.Code != http.StatusOK {
		t.Fatalf("init returned %d body=%s", rr.Code, rr.Body.String())
	}
	module.Tokens.Mint("USDC", "donor-1", 10_000)
	if rr := doJSON(t, server, http.MethodPost, "/v1/escrow/fund", "donor-1", `{"asset":"USDC","from":"donor-1","amount":10000}`); rr.Code != http.StatusOK {
		t.Fatalf("fund returned %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestEscrowCreateRequiresCallerHeader(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages", "", `{"id":1,"recipient":"recipient-1","amount":100,"asset":"USDC"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestEscrowCreateClaimRoundTrip(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages", "admin-1", `{"id":7,"recipient":"recipient-1","amount":400,"asset":"USDC"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create returned %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/escrow/packages/7", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get returned %d body=%s", rr.Code, rr.Body.String())
	}
	var got struct {
		Item struct {
			Recipient string `json:"recipient"`
			Amount    int64  `json:"amount"`
			Status    string `json:"status"`
		} `json:"item"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if got.Item.Recipient != "recipient-1" || got.Item.Amount != 400 || got.Item.Status != "created" {
		t.Fatalf("unexpected package payload: %+v", got.Item)
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/escrow/packages/7/claim", "recipient-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("claim returned %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/escrow/locked?asset=USDC", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("locked returned %d body=%s", rr.Code, rr.Body.String())
	}
	var locked struct {
		Locked int64 `json:"locked"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &locked); err != nil {
		t.Fatalf("decode locked response: %v", err)
	}
	if locked.Locked != 0 {
		t.Fatalf("expected locked 0 after claim, got %d", locked.Locked)
	}
}

func TestEscrowClaimByWrongRecipientIsForbidden(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	if rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages", "admin-1", `{"id":1,"recipient":"recipient-1","amount":100,"asset":"USDC"}`); rr.Code != http.StatusCreated {
		t.Fatalf("create returned %d body=%s", rr.Code, rr.Body.String())
	}

	rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages/1/claim", "recipient-2", "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestEscrowDuplicateIDConflicts(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	body := `{"id":5,"recipient":"recipient-1","amount":100,"asset":"USDC"}`
	if rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages", "admin-1", body); rr.Code != http.StatusCreated {
		t.Fatalf("create returned %d body=%s", rr.Code, rr.Body.String())
	}
	rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages", "admin-1", body)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	var errBody struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errBody.Code != "package_id_exists" {
		t.Fatalf("expected package_id_exists code, got %s", errBody.Code)
	}
}

func TestEscrowUnknownPackageIs404(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	rr := doJSON(t, server, http.MethodGet, "/v1/escrow/packages/99", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/escrow/packages/not-a-number", "", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestEscrowBatchCreateReturnsIDs(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages/batch", "admin-1",
		`{"recipients":["recipient-1","recipient-2"],"amounts":[100,200],"asset":"USDC","expires_in":3600}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("batch returned %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		IDs []uint64 `json:"ids"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode batch response: %v", err)
	}
	if len(resp.IDs) != 2 || resp.IDs[0] != 0 || resp.IDs[1] != 1 {
		t.Fatalf("expected ids [0 1], got %v", resp.IDs)
	}
}

func TestEscrowPauseBlocksCreation(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	if rr := doJSON(t, server, http.MethodPost, "/v1/escrow/pause", "admin-1", ""); rr.Code != http.StatusOK {
		t.Fatalf("pause returned %d body=%s", rr.Code, rr.Body.String())
	}

	rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages", "admin-1", `{"id":1,"recipient":"recipient-1","amount":100,"asset":"USDC"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 while paused, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/escrow/paused", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("paused query returned %d", rr.Code)
	}
	var paused struct {
		Paused bool `json:"paused"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &paused); err != nil {
		t.Fatalf("decode paused response: %v", err)
	}
	if !paused.Paused {
		t.Fatalf("expected paused true")
	}
}

func TestEscrowAggregatesRequireAsset(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	if rr := doJSON(t, server, http.MethodGet, "/v1/escrow/aggregates", "", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without asset, got %d", rr.Code)
	}

	for i, amount := range []int64{100, 200} {
		body := fmt.Sprintf(`{"id":%d,"recipient":"recipient-%d","amount":%d,"asset":"USDC"}`, i+1, i+1, amount)
		if rr := doJSON(t, server, http.MethodPost, "/v1/escrow/packages", "admin-1", body); rr.Code != http.StatusCreated {
			t.Fatalf("create returned %d body=%s", rr.Code, rr.Body.String())
		}
	}

	rr := doJSON(t, server, http.MethodGet, "/v1/escrow/aggregates?asset=USDC", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("aggregates returned %d body=%s", rr.Code, rr.Body.String())
	}
	var agg struct {
		TotalCommitted int64 `json:"total_committed"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &agg); err != nil {
		t.Fatalf("decode aggregates: %v", err)
	}
	if agg.TotalCommitted != 300 {
		t.Fatalf("expected committed 300, got %d", agg.TotalCommitted)
	}
}

func TestEscrowAdminEndpointsRejectNonAdmin(t *testing.T) {
	server, module := newTestServer(t)
	setupLedger(t, server, module)

	if rr := doJSON(t, server, http.MethodPost, "/v1/escrow/pause", "stranger", ""); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger pause, got %d", rr.Code)
	}
	if rr := doJSON(t, server, http.MethodPost, "/v1/escrow/distributors/add", "stranger", `{"principal":"ngo-1"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger distributor grant, got %d", rr.Code)
	}
	if rr := doJSON(t, server, http.MethodPut, "/v1/escrow/config", "stranger", `{"min_amount":5}`); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger config write, got %d", rr.Code)
	}
}
