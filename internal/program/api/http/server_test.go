package httpapi

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ah-Riz/mythra-program/internal/program/checkin"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/gategrant"
	"github.com/Ah-Riz/mythra-program/internal/program/service"
	"github.com/Ah-Riz/mythra-program/internal/program/storage/sqlite"
)

// Fixed far-future window so lifecycle guards stay deterministic under the
// real clock.
const (
	testEventStart = int64(4_102_444_800) // 2100-01-01
	testEventEnd   = testEventStart + 86_400
	testDeadline   = testEventStart - 1_000
)

type testServer struct {
	echo     *echo.Echo
	gateKey  ed25519.PrivateKey
	gateCfg  gategrant.Config
	platform domain.Address
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "mythra.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	gateCfg := gategrant.Config{
		Issuer:   "mythra",
		Audience: "gate",
		Key:      pub,
		Now:      time.Now,
	}

	platform := testAddr(0xFF)
	svc := service.New(store, platform)
	server := New(svc, gateCfg)

	e := echo.New()
	server.Routes(e)
	return &testServer{echo: e, gateKey: priv, gateCfg: gateCfg, platform: platform}
}

func testAddr(b byte) domain.Address {
	var a domain.Address
	a[31] = b
	return a
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return ts.doAuth(t, method, path, body, "")
}

func (ts *testServer) doAuth(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createEvent(t *testing.T) eventResponse {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/v1/events", map[string]any{
		"organizer":          testAddr(1).String(),
		"event_id":           "summer-fest",
		"metadata_uri":       "ipfs://event",
		"start_ts":           testEventStart,
		"end_ts":             testEventEnd,
		"total_supply":       500,
		"platform_split_bps": 250,
		"treasury":           testAddr(9).String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp eventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) createTier(t *testing.T, event eventResponse) tierResponse {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/v1/tiers", map[string]any{
		"signer":         event.Authority,
		"event":          event.Address,
		"tier_id":        "general",
		"metadata_uri":   "ipfs://tier",
		"price_lamports": 2_000_000,
		"max_supply":     100,
		"royalty_bps":    500,
		"resale_enabled": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp tierResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) deposit(t *testing.T, to string, amount uint64) {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/v1/accounts/deposits", map[string]any{
		"to":     to,
		"amount": amount,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func (ts *testServer) purchaseTicket(t *testing.T, tier tierResponse, buyer, mint domain.Address) ticketResponse {
	t.Helper()

	ts.deposit(t, buyer.String(), 2_000_000)
	rec := ts.do(t, http.MethodPost, "/v1/assets/mint", map[string]any{
		"authority": buyer.String(),
		"mint":      mint.String(),
		"owner":     buyer.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/v1/tickets/purchase", map[string]any{
		"buyer":    buyer.String(),
		"tier":     tier.Address,
		"mint":     mint.String(),
		"order_id": fmt.Sprintf("order-%s", mint),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp ticketResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestEventRoutes(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	event := ts.createEvent(t)
	assert.Equal(t, testAddr(1).String(), event.Authority)

	rec := ts.do(t, http.MethodGet, "/v1/events/"+event.Address, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got eventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, event, got)

	rec = ts.do(t, http.MethodGet, "/v1/events/not-a-valid-address", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/events/"+testAddr(99).String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateEventForbidden(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	event := ts.createEvent(t)
	rec := ts.do(t, http.MethodPatch, "/v1/events/"+event.Address, map[string]any{
		"signer":       testAddr(2).String(),
		"metadata_uri": "ipfs://updated",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED_UPDATE", body.Code)
}

func TestPurchaseTicketRoute(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	event := ts.createEvent(t)
	tier := ts.createTier(t, event)
	ticket := ts.purchaseTicket(t, tier, testAddr(20), testAddr(30))
	assert.Equal(t, testAddr(20).String(), ticket.Owner)

	rec := ts.do(t, http.MethodGet, "/v1/accounts/"+testAddr(20).String()+"/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance":0}`, rec.Body.String())
}

func TestCampaignRoutes(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	event := ts.createEvent(t)
	rec := ts.do(t, http.MethodPost, "/v1/campaigns", map[string]any{
		"signer":       event.Authority,
		"event":        event.Address,
		"funding_goal": domain.MinimumFundingGoal,
		"deadline":     testDeadline,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var campaign campaignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &campaign))

	backer := testAddr(20)
	ts.deposit(t, backer.String(), domain.MinimumFundingGoal)
	rec = ts.do(t, http.MethodPost, "/v1/campaigns/"+campaign.Address+"/contributions", map[string]any{
		"contributor": backer.String(),
		"amount":      domain.MinimumFundingGoal,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/v1/campaigns/"+campaign.Address+"/finalize", map[string]any{
		"signer": event.Authority,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"status":"funded"}`, rec.Body.String())

	// A funded campaign rejects refunds with a state conflict.
	rec = ts.do(t, http.MethodPost, "/v1/campaigns/"+campaign.Address+"/refunds", map[string]any{
		"contributor": backer.String(),
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckInRouteRequiresGrant(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	event := ts.createEvent(t)
	tier := ts.createTier(t, event)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	var holder domain.Address
	copy(holder[:], pub)
	ticket := ts.purchaseTicket(t, tier, holder, testAddr(30))

	nonceHash := sha256.Sum256([]byte("entry"))
	proof := checkin.Sign(priv, nonceHash, 7)
	operator := testAddr(50)
	body := map[string]any{
		"gate_operator": operator.String(),
		"public_key":    proof.PublicKey,
		"signature":     proof.Signature,
		"nonce_hash":    nonceHash[:],
		"nonce_value":   7,
	}

	rec := ts.do(t, http.MethodPost, "/v1/tickets/"+ticket.Address+"/checkin", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	grant, err := gategrant.Issue(ts.gateKey, ts.gateCfg, ticket.Event, operator.String(), "grant-1", time.Hour)
	require.NoError(t, err)
	rec = ts.doAuth(t, http.MethodPost, "/v1/tickets/"+ticket.Address+"/checkin", body, grant)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got ticketResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Used)
	assert.Equal(t, operator.String(), got.GateOperator)

	// Replay with the same nonce fails.
	rec = ts.doAuth(t, http.MethodPost, "/v1/tickets/"+ticket.Address+"/checkin", body, grant)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthRoute(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
