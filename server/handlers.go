package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/shenfeiyu123456/auctionmarket/core"
	"github.com/shenfeiyu123456/auctionmarket/marketapi"
	"github.com/shenfeiyu123456/auctionmarket/oracle"
)

// httpStatus maps engine error kinds onto HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, core.ErrInsufficientBid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidState),
		errors.Is(err, core.ErrDeadlineNotReached),
		errors.Is(err, core.ErrDeadlineElapsed),
		errors.Is(err, core.ErrNothingToWithdraw):
		return http.StatusConflict
	case errors.Is(err, core.ErrExternalDependency):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the uniform error body for an engine error.
func fail(c echo.Context, err error) error {
	return c.JSON(httpStatus(err), marketapi.ErrorResponse{Error: err.Error()})
}

func auctionResponse(rec core.AuctionRecord) marketapi.AuctionResponse {
	return marketapi.AuctionResponse{
		Fingerprint:   core.RecordFingerprint(rec),
		Seller:        string(rec.Seller),
		AssetContract: rec.Asset.Contract,
		AssetTokenID:  rec.Asset.TokenID,
		StartingPrice: rec.StartingPrice.String(),
		EndTime:       rec.EndTime,
		HighestBidder: string(rec.HighestBidder),
		HighestBid:    rec.HighestBid.String(),
		Status:        rec.Status.String(),
	}
}

func (s *Server) createInstance(c echo.Context) error {
	var req marketapi.CreateInstanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	var source core.RateSource
	if req.PriceFeedURL != "" {
		source = oracle.NewHTTPSource(req.PriceFeedURL)
	}

	instance, err := s.registry.CreateAuction(c.Request().Context(), core.Identity(req.Creator), source)
	if err != nil {
		return fail(c, err)
	}

	log.Printf("INFO: instance %s created by %s", instance.Address(), req.Creator)
	return c.JSON(http.StatusCreated, marketapi.InstanceResponse{
		Address:   string(instance.Address()),
		Authority: string(instance.Authority()),
	})
}

func (s *Server) instanceCount(c echo.Context) error {
	return c.JSON(http.StatusOK, marketapi.InstanceCountResponse{Count: s.registry.InstanceCount()})
}

func (s *Server) instanceAt(c echo.Context) error {
	var index int
	if err := echo.PathParamsBinder(c).Int("index", &index).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "index must be an integer")
	}

	address, err := s.registry.InstanceAt(index)
	if err != nil {
		return fail(c, err)
	}
	instance, _ := s.registry.Instance(address)
	return c.JSON(http.StatusOK, marketapi.InstanceResponse{
		Address:   string(address),
		Authority: string(instance.Authority()),
	})
}

func (s *Server) instanceValid(c echo.Context) error {
	address := c.Param("address")
	return c.JSON(http.StatusOK, marketapi.InstanceValidityResponse{
		Address: address,
		Valid:   s.registry.IsValidInstance(core.Identity(address)),
	})
}

func (s *Server) createAuction(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}

	var req marketapi.CreateAuctionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	price, err := parseAmount("declared_price", req.DeclaredPrice)
	if err != nil {
		return err
	}

	asset := core.AssetKey{Contract: req.AssetContract, TokenID: req.AssetTokenID}
	rec, err := instance.CreateAuction(c.Request().Context(), core.Identity(req.Seller), asset, price, time.Duration(req.DurationSeconds)*time.Second)
	if err != nil {
		return fail(c, err)
	}

	log.Printf("INFO: auction created on %s for %s by %s", instance.Address(), asset, req.Seller)
	return c.JSON(http.StatusCreated, auctionResponse(rec))
}

func (s *Server) getAuction(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}
	asset, err := assetKey(c)
	if err != nil {
		return err
	}

	rec, ok := instance.GetAuction(asset)
	if !ok {
		return c.JSON(http.StatusNotFound, marketapi.ErrorResponse{Error: "no auction record for " + asset.String()})
	}
	return c.JSON(http.StatusOK, auctionResponse(rec))
}

func (s *Server) auctionActive(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}
	asset, err := assetKey(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, marketapi.AuctionActiveResponse{Active: instance.IsAuctionActive(asset)})
}

func (s *Server) placeBid(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}
	asset, err := assetKey(c)
	if err != nil {
		return err
	}

	var req marketapi.PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return err
	}

	rec, err := instance.PlaceBid(c.Request().Context(), core.Identity(req.Bidder), asset, amount)
	if err != nil {
		return fail(c, err)
	}

	log.Printf("INFO: bid %s by %s on %s/%s", amount, req.Bidder, instance.Address(), asset)
	return c.JSON(http.StatusOK, auctionResponse(rec))
}

func (s *Server) endAuction(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}
	asset, err := assetKey(c)
	if err != nil {
		return err
	}

	rec, err := instance.EndAuction(c.Request().Context(), asset)
	if err != nil {
		return fail(c, err)
	}

	log.Printf("INFO: auction ended on %s for %s, winner=%q", instance.Address(), asset, rec.HighestBidder)
	return c.JSON(http.StatusOK, auctionResponse(rec))
}

func (s *Server) cancelAuction(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}
	asset, err := assetKey(c)
	if err != nil {
		return err
	}

	var req marketapi.CancelAuctionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	rec, err := instance.CancelAuction(c.Request().Context(), core.Identity(req.Caller), asset)
	if err != nil {
		return fail(c, err)
	}

	log.Printf("INFO: auction cancelled on %s for %s", instance.Address(), asset)
	return c.JSON(http.StatusOK, auctionResponse(rec))
}

func (s *Server) pendingWithdrawal(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}
	identity := c.Param("identity")
	return c.JSON(http.StatusOK, marketapi.PendingWithdrawalResponse{
		Identity: identity,
		Pending:  instance.PendingWithdrawal(core.Identity(identity)).String(),
	})
}

func (s *Server) withdraw(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}

	var req marketapi.WithdrawRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	amount, err := instance.Withdraw(c.Request().Context(), core.Identity(req.Caller))
	if err != nil {
		return fail(c, err)
	}

	log.Printf("INFO: withdrawal of %s by %s from %s", amount, req.Caller, instance.Address())
	return c.JSON(http.StatusOK, marketapi.WithdrawResponse{Amount: amount.String()})
}

func (s *Server) setTestMode(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}

	var req marketapi.SetTestModeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	rate := decimal.Zero
	if req.Enabled {
		parsed, err := parseAmount("rate", req.Rate)
		if err != nil {
			return err
		}
		rate = parsed
	}

	if err := instance.SetTestMode(core.Identity(req.Caller), req.Enabled, rate); err != nil {
		return fail(c, err)
	}

	log.Printf("INFO: test mode %v on %s (rate=%s)", req.Enabled, instance.Address(), rate)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) snapshot(c echo.Context) error {
	instance, err := s.instance(c)
	if err != nil {
		return err
	}

	data, err := instance.EncodeSnapshot()
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set("X-Snapshot-Digest", core.SnapshotDigest(data))
	return c.Blob(http.StatusOK, "application/cbor", data)
}

func (s *Server) beaconPolicy(c echo.Context) error {
	s.mu.Lock()
	current := s.currentPolicy
	s.mu.Unlock()
	return c.JSON(http.StatusOK, marketapi.BeaconResponse{Policy: current})
}

func (s *Server) upgradeBeacon(c echo.Context) error {
	var req marketapi.UpgradeBeaconRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	policy, ok := s.policies[req.Policy]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown policy version "+req.Policy)
	}
	if err := s.registry.Beacon().UpgradeTo(core.Identity(req.Caller), policy); err != nil {
		return fail(c, err)
	}

	s.mu.Lock()
	s.currentPolicy = req.Policy
	s.mu.Unlock()
	log.Printf("INFO: beacon upgraded to %s by %s", req.Policy, req.Caller)
	return c.JSON(http.StatusOK, marketapi.BeaconResponse{Policy: req.Policy})
}

func (s *Server) mintAsset(c echo.Context) error {
	var req marketapi.MintAssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	asset := core.AssetKey{Contract: req.AssetContract, TokenID: req.AssetTokenID}
	if err := s.assets.Mint(core.Identity(req.Owner), asset); err != nil {
		return c.JSON(http.StatusConflict, marketapi.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) approveAsset(c echo.Context) error {
	var req marketapi.ApproveAssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	asset := core.AssetKey{Contract: req.AssetContract, TokenID: req.AssetTokenID}
	if err := s.assets.Approve(core.Identity(req.Caller), core.Identity(req.Operator), asset); err != nil {
		return c.JSON(http.StatusForbidden, marketapi.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) assetOwner(c echo.Context) error {
	asset, err := assetKey(c)
	if err != nil {
		return err
	}

	owner, ok := s.assets.OwnerOf(asset)
	if !ok {
		return c.JSON(http.StatusNotFound, marketapi.ErrorResponse{Error: "unknown asset " + asset.String()})
	}
	return c.JSON(http.StatusOK, marketapi.AssetOwnerResponse{
		AssetContract: asset.Contract,
		AssetTokenID:  asset.TokenID,
		Owner:         string(owner),
	})
}

func (s *Server) depositFunds(c echo.Context) error {
	var req marketapi.DepositFundsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return err
	}

	if err := s.vault.Deposit(core.Identity(req.Account), amount); err != nil {
		return c.JSON(http.StatusBadRequest, marketapi.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) fundsBalance(c echo.Context) error {
	identity := c.Param("identity")
	return c.JSON(http.StatusOK, marketapi.BalanceResponse{
		Account: identity,
		Balance: s.vault.Balance(core.Identity(identity)).String(),
	})
}
