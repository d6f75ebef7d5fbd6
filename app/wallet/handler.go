package wallet

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joefazee/foresight/app/api"
	"github.com/joefazee/foresight/app/user"
	"github.com/joefazee/foresight/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func callerID(c *gin.Context) uuid.UUID {
	return user.ContextGetUser(c).ID
}

// ownedWallet fetches a wallet and verifies it belongs to the caller. A
// wallet owned by someone else reads as not found, so the route never
// confirms foreign wallet IDs.
func (h *Handler) ownedWallet(c *gin.Context, id uuid.UUID) (*Response, bool) {
	wallet, err := h.service.GetWallet(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Wallet")
			return nil, false
		}
		api.InternalErrorResponse(c, "Failed to get wallet")
		return nil, false
	}
	if wallet.UserID != callerID(c) {
		api.NotFoundResponse(c, "Wallet")
		return nil, false
	}
	return wallet, true
}

// CreateWallet godoc
// @Summary Create a new wallet
// @Description Create a new wallet for the authenticated caller with specified currency
// @Tags wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateWalletRequest true "Wallet creation request"
// @Success 201 {object} api.Response{data=Response}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallets [post]
func (h *Handler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	// Wallets are only ever created for the caller; the request's user_id
	// field is overwritten rather than trusted.
	req.UserID = callerID(c)

	wallet, err := h.service.CreateWallet(c.Request.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			api.ConflictResponse(c, err.Error())
			return
		}
		api.InternalErrorResponse(c, "Failed to create wallet")
		return
	}

	api.CreatedResponse(c, "Wallet created successfully", wallet)
}

// GetWallet godoc
// @Summary Get one of the caller's wallets by ID
// @Description Get detailed information about a wallet owned by the caller
// @Tags wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wallet ID"
// @Success 200 {object} api.Response{data=Response}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallets/{id} [get]
func (h *Handler) GetWallet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid wallet ID format")
		return
	}

	wallet, ok := h.ownedWallet(c, id)
	if !ok {
		return
	}

	api.SuccessResponse(c, 200, "Wallet retrieved successfully", wallet)
}

// GetMyWallets godoc
// @Summary Get the caller's wallets
// @Description Get all wallets belonging to the authenticated caller
// @Tags wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=[]Response}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallets/me [get]
func (h *Handler) GetMyWallets(c *gin.Context) {
	wallets, err := h.service.GetUserWallets(c.Request.Context(), callerID(c))
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get user wallets")
		return
	}

	api.SuccessResponse(c, 200, "User wallets retrieved successfully", wallets)
}

// GetWalletTransactions godoc
// @Summary Get wallet transactions
// @Description Get transaction history for a wallet owned by the caller
// @Tags wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wallet ID"
// @Param limit query int false "Limit (default: 20, max: 100)"
// @Param offset query int false "Offset (default: 0)"
// @Success 200 {object} api.Response{data=[]TransactionResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallets/{id}/transactions [get]
func (h *Handler) GetWalletTransactions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid wallet ID format")
		return
	}

	if _, ok := h.ownedWallet(c, id); !ok {
		return
	}

	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsedLimit, err := strconv.Atoi(l); err == nil {
			limit = parsedLimit
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsedOffset, err := strconv.Atoi(o); err == nil {
			offset = parsedOffset
		}
	}

	transactions, err := h.service.GetWalletTransactions(c.Request.Context(), id, limit, offset)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get wallet transactions")
		return
	}

	api.SuccessResponse(c, 200, "Wallet transactions retrieved successfully", transactions)
}
