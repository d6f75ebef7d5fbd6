package core

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/foresight/app/api"
	"github.com/joefazee/foresight/app/user"
	"github.com/joefazee/foresight/models"
)

// Handler exposes the lifecycle controller over HTTP.
type Handler struct {
	controller *Controller
}

// NewHandler builds a gin handler set over the lifecycle controller.
func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

func callerID(c *gin.Context) uuid.UUID {
	u := user.ContextGetUser(c)
	return u.ID
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound), errors.Is(err, models.ErrBetNotFound), errors.Is(err, models.ErrActionNotFound), errors.Is(err, models.ErrAdminNotFound):
		api.NotFoundResponse(c, "resource")
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrThresholdNotMet):
		api.ForbiddenResponse(c, err.Error())
	case errors.Is(err, models.ErrReentrancy), errors.Is(err, models.ErrAlreadyInitialized),
		errors.Is(err, models.ErrAlreadyBet), errors.Is(err, models.ErrAlreadyClaimed),
		errors.Is(err, models.ErrAlreadyApproved), errors.Is(err, models.ErrActionAlreadyExecuted),
		errors.Is(err, models.ErrActionAlreadyPending):
		api.ConflictResponse(c, err.Error())
	default:
		api.BadRequestResponse(c, err.Error())
	}
}

// CreateMarket godoc
// @Summary Create a prediction market
// @Description Creates a new market with a bounded outcome set and a hybrid oracle/community resolution policy
// @Tags markets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMarketRequest true "Market creation request"
// @Success 201 {object} api.Response{data=MarketResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets [post]
func (h *Handler) CreateMarket(c *gin.Context) {
	var req CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	admin := callerID(c)

	disputeWindow := defaultDuration(req.DisputeWindowSeconds, h.controller.cfg.DefaultDisputeWindow)
	resolutionTimeout := defaultDuration(req.ResolutionTimeoutSeconds, h.controller.cfg.DefaultResolutionTimeout)
	feeBps := req.FeeBps
	if feeBps == 0 {
		feeBps = h.controller.cfg.DefaultFeeBps
	}

	market, err := h.controller.CreateMarket(c.Request.Context(), admin, req.Question, req.Outcomes, req.EndTime, req.OracleConfig, req.FallbackOracleConfig, disputeWindow, resolutionTimeout, feeBps)
	if err != nil {
		writeError(c, err)
		return
	}
	api.CreatedResponse(c, "Market created successfully", ToMarketResponse(market))
}

// GetMarket godoc
// @Summary Get a market by ID
// @Tags markets
// @Produce json
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=MarketResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id} [get]
func (h *Handler) GetMarket(c *gin.Context) {
	market, err := h.controller.GetMarket(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Market retrieved successfully", ToMarketResponse(market))
}

// ListMarkets godoc
// @Summary List active markets
// @Tags markets
// @Produce json
// @Param limit query int false "Limit (default: 20)"
// @Param offset query int false "Offset (default: 0)"
// @Success 200 {object} api.Response{data=[]MarketResponse}
// @Router /api/v1/markets [get]
func (h *Handler) ListMarkets(c *gin.Context) {
	limit, offset := pageParams(c)
	markets, err := h.controller.GetAllMarkets(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	responses := make([]*MarketResponse, len(markets))
	for i := range markets {
		responses[i] = ToMarketResponse(&markets[i])
	}
	api.ListResponse(c, "Markets retrieved successfully", responses, len(responses))
}

// ExtendMarket godoc
// @Summary Extend a market's deadline
// @Tags markets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body ExtendMarketRequest true "Extension request"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/extend [patch]
func (h *Handler) ExtendMarket(c *gin.Context) {
	var req ExtendMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.ExtendMarket(c.Request.Context(), callerID(c), c.Param("id"), req.Days, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Market extended successfully", nil)
}

// CancelMarket godoc
// @Summary Administratively cancel a market
// @Tags markets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body CancelMarketRequest true "Cancellation reason"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id} [delete]
func (h *Handler) CancelMarket(c *gin.Context) {
	var req CancelMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.CancelMarket(c.Request.Context(), callerID(c), c.Param("id"), req.Reason); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Market cancelled successfully", nil)
}

// PlaceBet godoc
// @Summary Stake on a market outcome
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body PlaceBetRequest true "Bet request"
// @Success 201 {object} api.Response{data=BetResponse}
// @Router /api/v1/markets/{id}/bets [post]
func (h *Handler) PlaceBet(c *gin.Context) {
	var req PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	bet, err := h.controller.PlaceBet(c.Request.Context(), callerID(c), c.Param("id"), req.Outcome, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	api.CreatedResponse(c, "Bet placed successfully", ToBetResponse(bet))
}

// PlaceBets godoc
// @Summary Stake across multiple markets atomically
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceBetsRequest true "Batch bet request"
// @Success 201 {object} api.Response{data=[]BetResponse}
// @Router /api/v1/markets/bets/batch [post]
func (h *Handler) PlaceBets(c *gin.Context) {
	var req PlaceBetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	items := make([]BetItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = BetItem{MarketID: it.MarketID, Outcome: it.Outcome, Amount: it.Amount}
	}
	bets, err := h.controller.PlaceBets(c.Request.Context(), callerID(c), items)
	if err != nil {
		writeError(c, err)
		return
	}
	responses := make([]*BetResponse, len(bets))
	for i, b := range bets {
		responses[i] = ToBetResponse(b)
	}
	api.CreatedResponse(c, "Bets placed successfully", responses)
}

// CancelBet godoc
// @Summary Cancel an active bet before the market closes
// @Tags bets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/bets [delete]
func (h *Handler) CancelBet(c *gin.Context) {
	if err := h.controller.CancelBet(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	api.DeletedResponse(c, "Bet cancelled successfully")
}

// MyBet godoc
// @Summary Get the caller's active bet on a market
// @Tags bets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=BetResponse}
// @Router /api/v1/markets/{id}/bets/me [get]
func (h *Handler) MyBet(c *gin.Context) {
	bet, err := h.controller.QueryUserBet(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Bet retrieved successfully", ToBetResponse(bet))
}

// MyBets godoc
// @Summary List the caller's bets across all markets
// @Tags bets
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} api.Response{data=[]BetResponse}
// @Router /api/v1/bets/me [get]
func (h *Handler) MyBets(c *gin.Context) {
	limit, offset := pageParams(c)
	bets, err := h.controller.QueryUserBets(c.Request.Context(), callerID(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	responses := make([]*BetResponse, len(bets))
	for i := range bets {
		responses[i] = ToBetResponse(&bets[i])
	}
	api.ListResponse(c, "Bets retrieved successfully", responses, len(responses))
}

// ResolveMarket godoc
// @Summary Resolve an ended market via the hybrid oracle/community algorithm
// @Tags markets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/resolve [post]
func (h *Handler) ResolveMarket(c *gin.Context) {
	if err := h.controller.ResolveMarket(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Market resolved successfully", nil)
}

// FinalizeMarket godoc
// @Summary Finalize a resolved market once its dispute window has elapsed
// @Tags markets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/finalize [post]
func (h *Handler) FinalizeMarket(c *gin.Context) {
	if err := h.controller.FinalizeMarket(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Market finalized successfully", nil)
}

// DisputeMarket godoc
// @Summary Open a dispute against a resolved market's outcome
// @Tags disputes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body DisputeRequest true "Dispute request"
// @Success 201 {object} api.Response
// @Router /api/v1/markets/{id}/dispute [post]
func (h *Handler) DisputeMarket(c *gin.Context) {
	var req DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.DisputeMarket(c.Request.Context(), callerID(c), c.Param("id"), req.Outcome, req.Stake, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	api.CreatedResponse(c, "Dispute opened successfully", nil)
}

// VoteOnDispute godoc
// @Summary Add a dispute stake while voting is open
// @Tags disputes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body DisputeRequest true "Dispute vote request"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/dispute/vote [post]
func (h *Handler) VoteOnDispute(c *gin.Context) {
	var req DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.VoteOnDispute(c.Request.Context(), callerID(c), c.Param("id"), req.Outcome, req.Stake, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Dispute vote recorded successfully", nil)
}

// ResolveDispute godoc
// @Summary Conclude dispute voting and settle dispute stakes
// @Tags disputes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/dispute/resolve [post]
func (h *Handler) ResolveDispute(c *gin.Context) {
	if err := h.controller.ResolveDispute(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Dispute resolved successfully", nil)
}

// AdjustDisputeThreshold godoc
// @Summary Manually override a market's dynamic dispute threshold
// @Tags disputes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body AdjustThresholdRequest true "New threshold"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/dispute/threshold [patch]
func (h *Handler) AdjustDisputeThreshold(c *gin.Context) {
	var req AdjustThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.AdjustDisputeThreshold(c.Request.Context(), callerID(c), c.Param("id"), req.Threshold); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Dispute threshold adjustment submitted", nil)
}

// ClaimWinnings godoc
// @Summary Claim a winning bet's proportional payout
// @Tags markets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/claim [post]
func (h *Handler) ClaimWinnings(c *gin.Context) {
	payout, err := h.controller.ClaimWinnings(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Winnings claimed successfully", gin.H{"payout": payout.String()})
}

// CollectFees godoc
// @Summary Withdraw a finalized market's accrued platform fee
// @Tags markets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/fees [post]
func (h *Handler) CollectFees(c *gin.Context) {
	fee, err := h.controller.CollectFees(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Fees collected successfully", gin.H{"fee": fee.String()})
}

// MarketAnalyticsHandler godoc
// @Summary Get a market's derived analytics
// @Tags markets
// @Produce json
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=MarketAnalytics}
// @Router /api/v1/markets/{id}/analytics [get]
func (h *Handler) MarketAnalyticsHandler(c *gin.Context) {
	analytics, err := h.controller.GetMarketAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Market analytics retrieved successfully", analytics)
}

// --- Admin & multisig handlers ---

// Initialize godoc
// @Summary Bootstrap the contract with its first SuperAdmin
// @Description Callable exactly once; fails with a conflict once any admin record exists.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 201 {object} api.Response
// @Router /api/v1/admin/initialize [post]
func (h *Handler) Initialize(c *gin.Context) {
	if err := h.controller.Initialize(c.Request.Context(), callerID(c)); err != nil {
		writeError(c, err)
		return
	}
	api.CreatedResponse(c, "Contract initialized", nil)
}

// AddAdmin godoc
// @Summary Register a new admin (SuperAdmin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddAdminRequest true "New admin"
// @Success 201 {object} api.Response
// @Router /api/v1/admin/admins [post]
func (h *Handler) AddAdmin(c *gin.Context) {
	var req AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.AddAdmin(c.Request.Context(), callerID(c), req.UserID, req.Role); err != nil {
		writeError(c, err)
		return
	}
	api.CreatedResponse(c, "Admin added successfully", nil)
}

// RemoveAdmin godoc
// @Summary Deactivate an admin (SuperAdmin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Target user ID"
// @Success 200 {object} api.Response
// @Router /api/v1/admin/admins/{user_id} [delete]
func (h *Handler) RemoveAdmin(c *gin.Context) {
	target, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}
	if err := h.controller.RemoveAdmin(c.Request.Context(), callerID(c), target); err != nil {
		writeError(c, err)
		return
	}
	api.DeletedResponse(c, "Admin removed successfully")
}

// UpdateAdminRole godoc
// @Summary Change an admin's role (SuperAdmin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Target user ID"
// @Param request body UpdateRoleRequest true "New role"
// @Success 200 {object} api.Response
// @Router /api/v1/admin/admins/{user_id}/role [patch]
func (h *Handler) UpdateAdminRole(c *gin.Context) {
	target, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.UpdateRole(c.Request.Context(), callerID(c), target, req.Role); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Admin role updated successfully", nil)
}

// SetAdminThreshold godoc
// @Summary Update the M-of-N multisig threshold (SuperAdmin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetThresholdRequest true "New threshold"
// @Success 200 {object} api.Response
// @Router /api/v1/admin/threshold [put]
func (h *Handler) SetAdminThreshold(c *gin.Context) {
	var req SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.SetAdminThreshold(c.Request.Context(), callerID(c), req.Threshold); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Multisig threshold updated successfully", nil)
}

// GetMultisigConfig godoc
// @Summary Get the current multisig configuration
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=models.MultisigConfig}
// @Router /api/v1/admin/multisig [get]
func (h *Handler) GetMultisigConfig(c *gin.Context) {
	cfg, err := h.controller.GetMultisigConfig(c.Request.Context(), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Multisig config retrieved successfully", cfg)
}

// CreatePendingAction godoc
// @Summary Open an M-of-N approval workflow for a sensitive admin operation
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePendingActionRequest true "Pending action request"
// @Success 201 {object} api.Response{data=models.PendingAdminAction}
// @Router /api/v1/admin/actions [post]
func (h *Handler) CreatePendingAction(c *gin.Context) {
	var req CreatePendingActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	action, err := h.controller.CreatePendingAdminAction(c.Request.Context(), callerID(c), req.ActionType, req.Target, req.Data)
	if err != nil {
		writeError(c, err)
		return
	}
	api.CreatedResponse(c, "Pending action created successfully", action)
}

// ApproveAction godoc
// @Summary Approve a pending admin action
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Success 200 {object} api.Response
// @Router /api/v1/admin/actions/{id}/approve [post]
func (h *Handler) ApproveAction(c *gin.Context) {
	actionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.BadRequestResponse(c, "Invalid action ID format")
		return
	}
	met, err := h.controller.ApproveAdminAction(c.Request.Context(), callerID(c), actionID)
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Approval recorded successfully", gin.H{"threshold_met": met})
}

// ExecuteAction godoc
// @Summary Execute a pending admin action once its approval threshold is met
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Success 200 {object} api.Response
// @Router /api/v1/admin/actions/{id}/execute [post]
func (h *Handler) ExecuteAction(c *gin.Context) {
	actionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.BadRequestResponse(c, "Invalid action ID format")
		return
	}
	if err := h.controller.ExecuteAdminAction(c.Request.Context(), callerID(c), actionID); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Action executed successfully", nil)
}

// GetPendingAction godoc
// @Summary Get a pending admin action by ID
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Success 200 {object} api.Response{data=models.PendingAdminAction}
// @Router /api/v1/admin/actions/{id} [get]
func (h *Handler) GetPendingAction(c *gin.Context) {
	actionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.BadRequestResponse(c, "Invalid action ID format")
		return
	}
	action, err := h.controller.GetPendingAdminAction(c.Request.Context(), callerID(c), actionID)
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Pending action retrieved successfully", action)
}

// UpdateOracleConfigRequest is the request body for replacing a market's
// oracle feed wiring.
type UpdateOracleConfigRequest struct {
	OracleConfig         models.OracleConfig  `json:"oracle_config" binding:"required"`
	FallbackOracleConfig *models.OracleConfig `json:"fallback_oracle_config,omitempty"`
}

// UpdateOracleConfig godoc
// @Summary Replace a market's oracle feed configuration (gated by multisig)
// @Tags markets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body UpdateOracleConfigRequest true "New oracle configuration"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/oracle-config [put]
func (h *Handler) UpdateOracleConfig(c *gin.Context) {
	var req UpdateOracleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	if err := h.controller.UpdateOracleConfig(c.Request.Context(), callerID(c), c.Param("id"), req.OracleConfig, req.FallbackOracleConfig); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Oracle configuration updated successfully", nil)
}

// QueryUserBalance godoc
// @Summary Get the caller's wallet balance in a currency
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param currency query string true "Currency code"
// @Success 200 {object} api.Response
// @Router /api/v1/balance [get]
func (h *Handler) QueryUserBalance(c *gin.Context) {
	currency := c.Query("currency")
	if currency == "" {
		api.BadRequestResponse(c, "currency is required")
		return
	}
	balance, err := h.controller.QueryUserBalance(c.Request.Context(), callerID(c), currency)
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Balance retrieved successfully", gin.H{"balance": balance.String(), "currency": currency})
}

// QueryEventDetails godoc
// @Summary Get an audit event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.Response{data=models.Event}
// @Router /api/v1/events/{id} [get]
func (h *Handler) QueryEventDetails(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid event ID format")
		return
	}
	event, err := h.controller.QueryEventDetails(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Event retrieved successfully", event)
}

// QueryEventStatus godoc
// @Summary Check whether an audit event with the given ID was recorded
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.Response
// @Router /api/v1/events/{id}/status [get]
func (h *Handler) QueryEventStatus(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid event ID format")
		return
	}
	topic, err := h.controller.QueryEventStatus(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Event status retrieved successfully", gin.H{"topic": topic})
}

// QueryContractState godoc
// @Summary Get the engine's singleton instance state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=models.InstanceState}
// @Router /api/v1/admin/state [get]
func (h *Handler) QueryContractState(c *gin.Context) {
	state, err := h.controller.QueryContractState(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Instance state retrieved successfully", state)
}

// Vote godoc
// @Summary Stake on a market outcome (legacy alias for placing a bet)
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body PlaceBetRequest true "Vote request"
// @Success 201 {object} api.Response{data=BetResponse}
// @Router /api/v1/markets/{id}/vote [post]
func (h *Handler) Vote(c *gin.Context) {
	var req PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	bet, err := h.controller.Vote(c.Request.Context(), callerID(c), c.Param("id"), req.Outcome, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	api.CreatedResponse(c, "Vote recorded successfully", ToBetResponse(bet))
}

// FetchOracleResult godoc
// @Summary Fetch a market's current oracle reading without resolving it
// @Tags markets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/oracle-result [post]
func (h *Handler) FetchOracleResult(c *gin.Context) {
	outcome, err := h.controller.FetchOracleResult(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Oracle result retrieved successfully", gin.H{"outcome": outcome})
}

// QueryMarketPool godoc
// @Summary Get a market's per-outcome stake totals
// @Tags markets
// @Produce json
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/pool [get]
func (h *Handler) QueryMarketPool(c *gin.Context) {
	pool, err := h.controller.QueryMarketPool(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Market pool retrieved successfully", pool)
}

// QueryTotalPoolSize godoc
// @Summary Get a market's total staked amount
// @Tags markets
// @Produce json
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response
// @Router /api/v1/markets/{id}/pool/total [get]
func (h *Handler) QueryTotalPoolSize(c *gin.Context) {
	total, err := h.controller.QueryTotalPoolSize(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Total pool size retrieved successfully", gin.H{"total_staked": total.String()})
}

// DeactivateAdmin godoc
// @Summary Deactivate an admin's privileges
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Admin user ID"
// @Success 200 {object} api.Response
// @Router /api/v1/admin/admins/{user_id}/deactivate [post]
func (h *Handler) DeactivateAdmin(c *gin.Context) {
	target, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}
	if err := h.controller.DeactivateAdmin(c.Request.Context(), callerID(c), target); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Admin deactivated successfully", nil)
}

// ReactivateAdmin godoc
// @Summary Reactivate a previously deactivated admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Admin user ID"
// @Success 200 {object} api.Response
// @Router /api/v1/admin/admins/{user_id}/reactivate [post]
func (h *Handler) ReactivateAdmin(c *gin.Context) {
	target, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return
	}
	if err := h.controller.ReactivateAdmin(c.Request.Context(), callerID(c), target); err != nil {
		writeError(c, err)
		return
	}
	api.UpdatedResponse(c, "Admin reactivated successfully", nil)
}

// RequiresMultisig godoc
// @Summary Check whether sensitive operations currently require M-of-N approval
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response
// @Router /api/v1/admin/multisig/required [get]
func (h *Handler) RequiresMultisig(c *gin.Context) {
	required, err := h.controller.RequiresMultisig(c.Request.Context(), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	api.SuccessResponse(c, 200, "Multisig requirement retrieved successfully", gin.H{"required": required})
}

func pageParams(c *gin.Context) (int, int) {
	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}

func defaultDuration(seconds int64, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
