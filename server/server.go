// Package server exposes the auction market over HTTP: the factory/registry
// surface, per-instance auction operations, the withdrawal ledger, the
// beacon admin surface, and the local custody/funds stand-ins.
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/shenfeiyu123456/auctionmarket/core"
	"github.com/shenfeiyu123456/auctionmarket/custody"
	"github.com/shenfeiyu123456/auctionmarket/registry"
)

// Server wires the engine components behind HTTP handlers. Named policy
// versions make beacon upgrades auditable: an upgrade request names a
// registered implementation rather than shipping code.
type Server struct {
	registry *registry.Registry
	assets   *custody.AssetLedger
	vault    *custody.Vault

	policies map[string]core.BidPolicy

	mu            sync.Mutex
	currentPolicy string
}

// PolicyStandard and PolicyMinIncrement are the registered policy versions
// selectable through the beacon admin surface.
const (
	PolicyStandard     = "standard/v1"
	PolicyMinIncrement = "min-increment/v2"
)

// New returns a server for the given engine components.
func New(reg *registry.Registry, assets *custody.AssetLedger, vault *custody.Vault) *Server {
	return &Server{
		registry: reg,
		assets:   assets,
		vault:    vault,
		policies: map[string]core.BidPolicy{
			PolicyStandard:     core.StandardPolicy{},
			PolicyMinIncrement: core.MinIncrementPolicy{MinIncrement: decimal.New(1, -settlementShift)},
		},
		currentPolicy: PolicyStandard,
	}
}

// settlementShift sets the v2 policy's minimum outbid increment to 1e-9
// settlement units, a gwei-sized step that keeps dust outbids off the book.
const settlementShift = 9

// Register registers every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.health)

	e.POST("/instances", s.createInstance)
	e.GET("/instances/count", s.instanceCount)
	e.GET("/instances/:index", s.instanceAt)
	e.GET("/instances/:address/valid", s.instanceValid)

	e.POST("/instances/:address/auctions", s.createAuction)
	e.GET("/instances/:address/auctions/:contract/:tokenID", s.getAuction)
	e.GET("/instances/:address/auctions/:contract/:tokenID/active", s.auctionActive)
	e.POST("/instances/:address/auctions/:contract/:tokenID/bids", s.placeBid)
	e.POST("/instances/:address/auctions/:contract/:tokenID/end", s.endAuction)
	e.POST("/instances/:address/auctions/:contract/:tokenID/cancel", s.cancelAuction)

	e.GET("/instances/:address/withdrawals/:identity", s.pendingWithdrawal)
	e.POST("/instances/:address/withdraw", s.withdraw)
	e.POST("/instances/:address/testmode", s.setTestMode)
	e.GET("/instances/:address/snapshot", s.snapshot)

	e.GET("/beacon", s.beaconPolicy)
	e.POST("/beacon/upgrade", s.upgradeBeacon)

	e.POST("/assets/mint", s.mintAsset)
	e.POST("/assets/approve", s.approveAsset)
	e.GET("/assets/:contract/:tokenID/owner", s.assetOwner)
	e.POST("/funds/deposit", s.depositFunds)
	e.GET("/funds/:identity", s.fundsBalance)
}

func (s *Server) health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// instance resolves the :address path parameter to a live instance.
func (s *Server) instance(c echo.Context) (*core.AuctionInstance, error) {
	address := core.Identity(c.Param("address"))
	instance, ok := s.registry.Instance(address)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown instance %q", address))
	}
	return instance, nil
}

// assetKey resolves the :contract/:tokenID path parameters.
func assetKey(c echo.Context) (core.AssetKey, error) {
	tokenID, err := strconv.ParseUint(c.Param("tokenID"), 10, 64)
	if err != nil {
		return core.AssetKey{}, echo.NewHTTPError(http.StatusBadRequest, "token id must be a non-negative integer")
	}
	return core.AssetKey{Contract: c.Param("contract"), TokenID: tokenID}, nil
}

// parseAmount parses a decimal string from a request body field.
func parseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a decimal number", field))
	}
	return amount, nil
}
