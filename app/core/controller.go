package core

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/joefazee/foresight/app/governance"
	"github.com/joefazee/foresight/app/oracle"
	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/internal/ledger"
	"github.com/joefazee/foresight/internal/sanitizer"
	"github.com/joefazee/foresight/models"
)

// Controller is the lifecycle controller: it orchestrates every other
// module behind a single reentrancy guard and a transaction-per-entrypoint
// boundary, rebinding every repository family to the in-flight transaction
// before any of them runs.
type Controller struct {
	db *gorm.DB

	markets    MarketRepository
	bets       BetRepository
	stakes     DisputeStakeRepository
	settles    SettlementRepository
	adminRepo  governance.AdminRepository
	actionRepo governance.PendingActionRepository

	instance   ledger.Instance
	temp       ledger.Temporary
	events     eventlog.EventLog
	oracles    oracle.Adapter
	transferer ValueTransferer
	balances   BalanceReader
	auth       Authenticator
	stripper   sanitizer.HTMLStripperer
	cfg        *Config
	govCfg     *governance.Config
	clock      Clock
}

// NewController wires every port into the lifecycle controller.
func NewController(
	db *gorm.DB,
	markets MarketRepository,
	bets BetRepository,
	stakes DisputeStakeRepository,
	settles SettlementRepository,
	adminRepo governance.AdminRepository,
	actionRepo governance.PendingActionRepository,
	instance ledger.Instance,
	temp ledger.Temporary,
	events eventlog.EventLog,
	oracles oracle.Adapter,
	transferer ValueTransferer,
	balances BalanceReader,
	auth Authenticator,
	stripper sanitizer.HTMLStripperer,
	cfg *Config,
	govCfg *governance.Config,
	clock Clock,
) *Controller {
	return &Controller{
		db: db, markets: markets, bets: bets, stakes: stakes, settles: settles,
		adminRepo: adminRepo, actionRepo: actionRepo,
		instance: instance, temp: temp, events: events, oracles: oracles, transferer: transferer,
		balances: balances,
		auth:     auth, stripper: stripper, cfg: cfg, govCfg: govCfg, clock: clock,
	}
}

// txModules is the bundle of domain modules bound to a single in-flight
// transaction, constructed fresh per entrypoint.
type txModules struct {
	registry   *Registry
	betting    *Betting
	resolution *Resolution
	payout     *Payout
	dispute    *Dispute
	governance *governance.Service
	events     eventlog.EventLog
}

func (c *Controller) bind(tx *gorm.DB) *txModules {
	markets := c.markets.WithTx(tx)
	bets := c.bets.WithTx(tx)
	stakes := c.stakes.WithTx(tx)
	settles := c.settles.WithTx(tx)
	events := c.events.WithTx(tx)

	resolution := NewResolution(markets, bets, c.oracles, events, c.temp, c.cfg, c.clock)
	return &txModules{
		registry:   NewRegistry(markets, c.instance),
		betting:    NewBetting(markets, bets, c.transferer, events, c.cfg, c.clock),
		resolution: resolution,
		payout:     NewPayout(markets, bets, settles, c.transferer, events, c.cfg),
		dispute:    NewDispute(markets, stakes, bets, resolution, c.transferer, events, c.cfg, c.clock),
		governance: governance.NewService(c.adminRepo.WithTx(tx), c.actionRepo.WithTx(tx), events, c.govCfg, c.clock),
		events:     events,
	}
}

// pendingActionKey is the temporary-namespace dedupe key for a deferred
// sensitive operation: one live pending action per (type, scope).
func pendingActionKey(actionType models.PendingActionType, target *uuid.UUID, data models.ActionData) string {
	scope, _ := data["market_id"].(string)
	if scope == "" && target != nil {
		scope = target.String()
	}
	return "pending_action:" + string(actionType) + ":" + scope
}

// createPendingAction opens a pending admin action behind a TTL-bounded
// dedupe marker in the temporary namespace, so replaying the same deferred
// operation while one is already awaiting approval does not mint a second
// action. A stale marker (action gone, executed or expired) is cleared and
// the create proceeds.
func (c *Controller) createPendingAction(ctx context.Context, tx *txModules, initiator uuid.UUID, actionType models.PendingActionType, target *uuid.UUID, data models.ActionData) (*models.PendingAdminAction, error) {
	key := pendingActionKey(actionType, target, data)
	if raw, found, err := c.temp.Get(ctx, key); err == nil && found {
		if priorID, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			if prior, getErr := tx.governance.GetPendingAction(ctx, priorID); getErr == nil &&
				!prior.Executed && !prior.IsExpired(c.clock.Now()) {
				return nil, models.ErrActionAlreadyPending
			}
		}
		_ = c.temp.Delete(ctx, key)
	}

	action, err := tx.governance.CreatePendingAction(ctx, initiator, actionType, target, data)
	if err != nil {
		return nil, err
	}
	_ = c.temp.Put(ctx, key, strconv.FormatInt(action.ActionID, 10), c.govCfg.ActionTTL)
	return action, nil
}

// withGuard runs fn inside the reentrancy guard and a single database
// transaction, releasing the guard on every exit path.
func (c *Controller) withGuard(ctx context.Context, identity uuid.UUID, fn func(ctx context.Context, tx *txModules) (interface{}, error)) (interface{}, error) {
	if err := c.instance.AcquireReentrancyGuard(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = c.instance.ReleaseReentrancyGuard(ctx) }()

	if err := c.auth.Authenticate(ctx, identity); err != nil {
		return nil, err
	}

	var result interface{}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = fn(ctx, c.bind(tx))
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateMarket mints and persists a new market.
func (c *Controller) CreateMarket(ctx context.Context, admin uuid.UUID, question string, outcomes []string, endTime time.Time, oracleCfg models.OracleConfig, fallbackCfg *models.OracleConfig, disputeWindow, resolutionTimeout time.Duration, feeBps int) (*models.Market, error) {
	question = SanitizeFreeText(c.stripper, question)
	cleanOutcomes := make([]string, len(outcomes))
	for i, o := range outcomes {
		cleanOutcomes[i] = SanitizeFreeText(c.stripper, o)
	}
	if err := ValidateMarketMetadata(question, cleanOutcomes); err != nil {
		return nil, err
	}

	out, err := c.withGuard(ctx, admin, func(ctx context.Context, tx *txModules) (interface{}, error) {
		market := &models.Market{
			AdminID:                  admin,
			Question:                 question,
			Outcomes:                 cleanOutcomes,
			State:                    models.MarketStateActive,
			EndTime:                  endTime,
			DisputeWindowSeconds:     int64(disputeWindow.Seconds()),
			ResolutionTimeoutSeconds: int64(resolutionTimeout.Seconds()),
			OracleConfig:             oracleCfg,
			FallbackOracleConfig:     fallbackCfg,
			FeeBps:                   feeBps,
			MaxExtensionDays:         c.cfg.DefaultMaxExtensionDays,
		}
		if err := tx.registry.Create(ctx, market); err != nil {
			return nil, err
		}
		marketID := market.ID
		if err := tx.events.Emit(ctx, eventlog.TopicMarketCreated, &marketID, &admin, models.EventPayload{
			"question": market.Question,
			"outcomes": []string(market.Outcomes),
		}); err != nil {
			return nil, err
		}
		return market, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.Market), nil
}

// ExtendMarket pushes a market's end time out by days, bounded by
// MaxExtensionDays, recording the extension in the market's audit trail.
func (c *Controller) ExtendMarket(ctx context.Context, admin uuid.UUID, marketID string, days int, reason string) error {
	reason = SanitizeFreeText(c.stripper, reason)
	_, err := c.withGuard(ctx, admin, func(ctx context.Context, tx *txModules) (interface{}, error) {
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		if market.State != models.MarketStateActive {
			return nil, models.ErrMarketClosed
		}
		if market.ExtensionHistory.TotalDaysAdded()+days > market.MaxExtensionDays {
			return nil, models.ErrExtensionLimitExceeded
		}
		market.EndTime = market.EndTime.Add(time.Duration(days) * 24 * time.Hour)
		market.ExtensionHistory = append(market.ExtensionHistory, models.ExtensionEntry{
			DaysAdded: days,
			Reason:    reason,
			Actor:     admin,
			Timestamp: c.clock.Now(),
		})
		return nil, tx.registry.Store(ctx, market)
	})
	return err
}

// CancelMarket administratively cancels a market, routing stakes back to
// their owners via RefundCancelledMarket. Gated by multisig when enabled,
// the same way CollectFees and AdjustDisputeThreshold are: the cancellation
// itself runs immediately only when the deployment has no standing M-of-N
// requirement, otherwise it is deferred to ExecuteAdminAction.
func (c *Controller) CancelMarket(ctx context.Context, admin uuid.UUID, marketID, reason string) error {
	reason = SanitizeFreeText(c.stripper, reason)
	_, err := c.withGuard(ctx, admin, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		if requiresMultisig {
			target := admin
			_, err := c.createPendingAction(ctx, tx, admin, models.PendingActionCancelMarket, &target, models.ActionData{
				"market_id": marketID,
				"reason":    reason,
			})
			return nil, err
		}

		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		if market.IsTerminal() {
			return nil, models.ErrMarketNotCancellable
		}
		market.State = models.MarketStateCancelled
		if err := tx.registry.Store(ctx, market); err != nil {
			return nil, err
		}
		if err := tx.payout.RefundCancelledMarket(ctx, market); err != nil {
			return nil, err
		}
		marketIDCopy := marketID
		return nil, tx.events.Emit(ctx, eventlog.TopicMarketCancelled, &marketIDCopy, &admin, models.EventPayload{"reason": reason})
	})
	return err
}

// PlaceBet stakes amount on outcome of marketID on behalf of user.
func (c *Controller) PlaceBet(ctx context.Context, userID uuid.UUID, marketID, outcome string, amount decimal.Decimal) (*models.Bet, error) {
	out, err := c.withGuard(ctx, userID, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return tx.betting.PlaceBet(ctx, userID, marketID, outcome, amount)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.Bet), nil
}

// PlaceBets stakes a batch of legs atomically on behalf of user.
func (c *Controller) PlaceBets(ctx context.Context, userID uuid.UUID, items []BetItem) ([]*models.Bet, error) {
	out, err := c.withGuard(ctx, userID, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return tx.betting.PlaceBets(ctx, userID, items)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*models.Bet), nil
}

// Vote is a legacy alias for PlaceBet kept for callers that predate the
// betting naming; it carries identical semantics to a single-leg bet.
func (c *Controller) Vote(ctx context.Context, userID uuid.UUID, marketID, outcome string, amount decimal.Decimal) (*models.Bet, error) {
	return c.PlaceBet(ctx, userID, marketID, outcome, amount)
}

// CancelBet reverts a user's still-open bet.
func (c *Controller) CancelBet(ctx context.Context, userID uuid.UUID, marketID string) error {
	_, err := c.withGuard(ctx, userID, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return nil, tx.betting.CancelBet(ctx, userID, marketID)
	})
	return err
}

// FetchOracleResult surfaces the market's current oracle reading without
// advancing its lifecycle state.
func (c *Controller) FetchOracleResult(ctx context.Context, caller uuid.UUID, marketID string) (string, error) {
	out, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		market, err := tx.registry.Load(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		return tx.resolution.FetchOracleResult(ctx, market)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// UpdateOracleConfig replaces a market's primary and fallback oracle feed
// configuration, gated by multisig when enabled. Only markets that have not
// yet resolved may have their oracle wiring changed.
func (c *Controller) UpdateOracleConfig(ctx context.Context, admin uuid.UUID, marketID string, oracleCfg models.OracleConfig, fallbackCfg *models.OracleConfig) error {
	_, err := c.withGuard(ctx, admin, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(oracleCfg)
		if err != nil {
			return nil, err
		}
		data := models.ActionData{"market_id": marketID, "oracle_config": string(payload)}
		if fallbackCfg != nil {
			fallbackPayload, err := json.Marshal(fallbackCfg)
			if err != nil {
				return nil, err
			}
			data["fallback_oracle_config"] = string(fallbackPayload)
		}
		if requiresMultisig {
			target := admin
			_, err := c.createPendingAction(ctx, tx, admin, models.PendingActionUpdateOracleConfig, &target, data)
			return nil, err
		}
		return nil, c.applyOracleConfig(ctx, tx, marketID, data)
	})
	return err
}

func (c *Controller) applyOracleConfig(ctx context.Context, tx *txModules, marketID string, data models.ActionData) error {
	market, err := tx.registry.LoadForUpdate(ctx, marketID)
	if err != nil {
		return models.ErrRecordNotFound
	}
	if market.IsTerminal() {
		return models.ErrMarketNotCancellable
	}
	var oracleCfg models.OracleConfig
	raw, _ := data["oracle_config"].(string)
	if err := json.Unmarshal([]byte(raw), &oracleCfg); err != nil {
		return models.ErrInvalidOracleConfig
	}
	market.OracleConfig = oracleCfg
	if rawFallback, ok := data["fallback_oracle_config"].(string); ok {
		var fallbackCfg models.OracleConfig
		if err := json.Unmarshal([]byte(rawFallback), &fallbackCfg); err != nil {
			return models.ErrInvalidOracleConfig
		}
		market.FallbackOracleConfig = &fallbackCfg
	}
	if err := tx.registry.Store(ctx, market); err != nil {
		return err
	}
	marketIDCopy := marketID
	return tx.events.Emit(ctx, eventlog.TopicOracleConfigUpdated, &marketIDCopy, nil, models.EventPayload{"action": "oracle_config_updated"})
}

// ResolveMarket advances an ended market through hybrid resolution.
func (c *Controller) ResolveMarket(ctx context.Context, caller uuid.UUID, marketID string) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		return nil, tx.resolution.Resolve(ctx, market)
	})
	return err
}

// FinalizeMarket transitions a Resolved market to Finalized once its
// dispute window has elapsed.
func (c *Controller) FinalizeMarket(ctx context.Context, caller uuid.UUID, marketID string) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		return nil, tx.resolution.Finalize(ctx, market)
	})
	return err
}

// DisputeMarket opens a dispute against a Resolved market's outcome.
func (c *Controller) DisputeMarket(ctx context.Context, userID uuid.UUID, marketID, outcome string, stake decimal.Decimal, reason string) error {
	reason = SanitizeFreeText(c.stripper, reason)
	_, err := c.withGuard(ctx, userID, func(ctx context.Context, tx *txModules) (interface{}, error) {
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		return nil, tx.dispute.DisputeMarket(ctx, userID, market, outcome, stake, reason)
	})
	return err
}

// VoteOnDispute adds an additional dispute stake while voting is open.
func (c *Controller) VoteOnDispute(ctx context.Context, userID uuid.UUID, marketID, outcome string, stake decimal.Decimal, reason string) error {
	reason = SanitizeFreeText(c.stripper, reason)
	_, err := c.withGuard(ctx, userID, func(ctx context.Context, tx *txModules) (interface{}, error) {
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		return nil, tx.dispute.VoteOnDispute(ctx, userID, market, outcome, stake, reason)
	})
	return err
}

// ResolveDispute concludes dispute voting and settles dispute stakes.
func (c *Controller) ResolveDispute(ctx context.Context, caller uuid.UUID, marketID string) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		return nil, tx.dispute.ResolveDispute(ctx, market)
	})
	return err
}

// AdjustDisputeThreshold is the admin-authorized manual override of a
// market's dynamic dispute threshold, gated by multisig when enabled.
func (c *Controller) AdjustDisputeThreshold(ctx context.Context, admin uuid.UUID, marketID string, newThreshold decimal.Decimal) error {
	_, err := c.withGuard(ctx, admin, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		if requiresMultisig {
			target := admin
			_, err := c.createPendingAction(ctx, tx, admin, models.PendingActionAdjustThreshold, &target, models.ActionData{
				"market_id": marketID,
				"threshold": newThreshold.String(),
			})
			return nil, err
		}
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		return nil, tx.dispute.AdjustThreshold(ctx, admin, market, newThreshold)
	})
	return err
}

// ClaimWinnings pays out a winning bet's proportional share.
func (c *Controller) ClaimWinnings(ctx context.Context, userID uuid.UUID, marketID string) (decimal.Decimal, error) {
	out, err := c.withGuard(ctx, userID, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return tx.payout.ClaimWinnings(ctx, userID, marketID)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return out.(decimal.Decimal), nil
}

// CollectFees transfers a finalized market's accrued platform fee to admin,
// gated by multisig when enabled.
func (c *Controller) CollectFees(ctx context.Context, admin uuid.UUID, marketID string) (decimal.Decimal, error) {
	out, err := c.withGuard(ctx, admin, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		if requiresMultisig {
			target := admin
			if _, err := c.createPendingAction(ctx, tx, admin, models.PendingActionCollectFees, &target, models.ActionData{
				"market_id": marketID,
			}); err != nil {
				return nil, err
			}
			return decimal.Zero, nil
		}
		return tx.payout.CollectFees(ctx, admin, marketID)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return out.(decimal.Decimal), nil
}

// Initialize bootstraps the contract: seeds the first SuperAdmin record and
// the singleton instance_state row. Callable exactly once; a second call
// fails with ErrAlreadyInitialized.
func (c *Controller) Initialize(ctx context.Context, admin uuid.UUID) error {
	if _, err := c.instance.GetState(ctx); err != nil {
		return err
	}
	_, err := c.withGuard(ctx, admin, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return nil, tx.governance.Bootstrap(ctx, admin)
	})
	return err
}

// --- Admin & multisig entrypoints, delegated to governance.Service ---

// AddAdmin registers a new admin under caller's SuperAdmin authority,
// deferred to a pending action when multisig is enabled.
func (c *Controller) AddAdmin(ctx context.Context, caller, target uuid.UUID, role models.AdminRole) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		if requiresMultisig {
			_, err := c.createPendingAction(ctx, tx, caller, models.PendingActionAddAdmin, &target, models.ActionData{"role": string(role)})
			return nil, err
		}
		return nil, tx.governance.AddAdmin(ctx, caller, target, role)
	})
	return err
}

// RemoveAdmin deactivates an admin, refusing to remove the last SuperAdmin.
// Deferred to a pending action when multisig is enabled.
func (c *Controller) RemoveAdmin(ctx context.Context, caller, target uuid.UUID) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		if requiresMultisig {
			_, err := c.createPendingAction(ctx, tx, caller, models.PendingActionRemoveAdmin, &target, models.ActionData{})
			return nil, err
		}
		return nil, tx.governance.RemoveAdmin(ctx, caller, target)
	})
	return err
}

// UpdateRole changes an admin's role, deferred to a pending action when
// multisig is enabled.
func (c *Controller) UpdateRole(ctx context.Context, caller, target uuid.UUID, role models.AdminRole) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		if requiresMultisig {
			_, err := c.createPendingAction(ctx, tx, caller, models.PendingActionUpdateRole, &target, models.ActionData{"role": string(role)})
			return nil, err
		}
		return nil, tx.governance.UpdateRole(ctx, caller, target, role)
	})
	return err
}

// DeactivateAdmin deactivates target's admin privileges, deferred to a
// pending action when multisig is enabled.
func (c *Controller) DeactivateAdmin(ctx context.Context, caller, target uuid.UUID) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		if requiresMultisig {
			_, err := c.createPendingAction(ctx, tx, caller, models.PendingActionRemoveAdmin, &target, models.ActionData{})
			return nil, err
		}
		return nil, tx.governance.Deactivate(ctx, caller, target)
	})
	return err
}

// ReactivateAdmin reactivates a previously deactivated admin.
func (c *Controller) ReactivateAdmin(ctx context.Context, caller, target uuid.UUID) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return nil, tx.governance.Reactivate(ctx, caller, target)
	})
	return err
}

// SetAdminThreshold updates the M-of-N multisig threshold, deferred to a
// pending action when multisig is already enabled.
func (c *Controller) SetAdminThreshold(ctx context.Context, caller uuid.UUID, n int) error {
	_, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		requiresMultisig, err := tx.governance.RequiresMultisig(ctx)
		if err != nil {
			return nil, err
		}
		if requiresMultisig {
			_, err := c.createPendingAction(ctx, tx, caller, models.PendingActionSetThreshold, nil, models.ActionData{"threshold": float64(n)})
			return nil, err
		}
		return nil, tx.governance.SetThreshold(ctx, caller, n)
	})
	return err
}

// GetMultisigConfig returns the current multisig configuration.
func (c *Controller) GetMultisigConfig(ctx context.Context, caller uuid.UUID) (*models.MultisigConfig, error) {
	out, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return tx.governance.GetMultisigConfig(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.MultisigConfig), nil
}

// CreatePendingAdminAction opens an M-of-N approval workflow for a sensitive
// admin operation.
func (c *Controller) CreatePendingAdminAction(ctx context.Context, initiator uuid.UUID, actionType models.PendingActionType, target *uuid.UUID, data models.ActionData) (*models.PendingAdminAction, error) {
	out, err := c.withGuard(ctx, initiator, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return c.createPendingAction(ctx, tx, initiator, actionType, target, data)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.PendingAdminAction), nil
}

// ApproveAdminAction records an admin's approval, returning whether the
// threshold has now been met.
func (c *Controller) ApproveAdminAction(ctx context.Context, admin uuid.UUID, actionID int64) (bool, error) {
	out, err := c.withGuard(ctx, admin, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return tx.governance.Approve(ctx, admin, actionID)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

// ExecuteAdminAction dispatches a pending action once its threshold is met.
// Market-scoped action types (cancel market, update oracle config, collect
// fees, adjust dispute threshold) are applied here, since they need the
// market repository governance.Service does not depend on.
func (c *Controller) ExecuteAdminAction(ctx context.Context, executor uuid.UUID, actionID int64) error {
	_, err := c.withGuard(ctx, executor, func(ctx context.Context, tx *txModules) (interface{}, error) {
		action, err := tx.governance.GetPendingAction(ctx, actionID)
		if err != nil {
			return nil, models.ErrActionNotFound
		}

		switch action.ActionType {
		case models.PendingActionCancelMarket, models.PendingActionCollectFees,
			models.PendingActionUpdateOracleConfig, models.PendingActionAdjustThreshold:
			executed, err := tx.governance.ExecuteExternal(ctx, executor, actionID)
			if err != nil {
				return nil, err
			}
			if err := c.applyMarketAction(ctx, tx, executor, executed); err != nil {
				return nil, err
			}
		default:
			if err := tx.governance.Execute(ctx, executor, actionID); err != nil {
				return nil, err
			}
		}
		_ = c.temp.Delete(ctx, pendingActionKey(action.ActionType, action.Target, action.Data))
		return nil, nil
	})
	return err
}

// applyMarketAction applies the effect of a market-scoped pending action
// after the governance module has marked it executed.
func (c *Controller) applyMarketAction(ctx context.Context, tx *txModules, executor uuid.UUID, action *models.PendingAdminAction) error {
	marketID, _ := action.Data["market_id"].(string)

	switch action.ActionType {
	case models.PendingActionCancelMarket:
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return models.ErrRecordNotFound
		}
		if market.IsTerminal() {
			return models.ErrMarketNotCancellable
		}
		market.State = models.MarketStateCancelled
		if err := tx.registry.Store(ctx, market); err != nil {
			return err
		}
		if err := tx.payout.RefundCancelledMarket(ctx, market); err != nil {
			return err
		}
		reason, _ := action.Data["reason"].(string)
		return tx.events.Emit(ctx, eventlog.TopicMarketCancelled, &marketID, &executor, models.EventPayload{"reason": reason})
	case models.PendingActionCollectFees:
		_, err := tx.payout.CollectFees(ctx, executor, marketID)
		return err
	case models.PendingActionUpdateOracleConfig:
		return c.applyOracleConfig(ctx, tx, marketID, action.Data)
	case models.PendingActionAdjustThreshold:
		thresholdStr, _ := action.Data["threshold"].(string)
		threshold, parseErr := decimal.NewFromString(thresholdStr)
		if parseErr != nil {
			return models.ErrInvalidThresholdFactor
		}
		market, err := tx.registry.LoadForUpdate(ctx, marketID)
		if err != nil {
			return models.ErrRecordNotFound
		}
		return tx.dispute.AdjustThreshold(ctx, executor, market, threshold)
	default:
		return models.ErrActionNotFound
	}
}

// GetPendingAdminAction fetches a pending action by ID.
func (c *Controller) GetPendingAdminAction(ctx context.Context, caller uuid.UUID, actionID int64) (*models.PendingAdminAction, error) {
	out, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return tx.governance.GetPendingAction(ctx, actionID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.PendingAdminAction), nil
}

// RequiresMultisig reports whether sensitive operations currently require
// M-of-N approval.
func (c *Controller) RequiresMultisig(ctx context.Context, caller uuid.UUID) (bool, error) {
	out, err := c.withGuard(ctx, caller, func(ctx context.Context, tx *txModules) (interface{}, error) {
		return tx.governance.RequiresMultisig(ctx)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

// --- Read-only queries (no reentrancy guard: these never mutate state) ---

// GetMarket fetches a single market by ID.
func (c *Controller) GetMarket(ctx context.Context, marketID string) (*models.Market, error) {
	market, err := c.markets.GetByID(ctx, marketID)
	if err != nil {
		return nil, models.ErrRecordNotFound
	}
	return market, nil
}

// GetAllMarkets lists active markets ordered by end time, soonest first,
// within the caller's pagination window.
func (c *Controller) GetAllMarkets(ctx context.Context, limit, offset int) ([]models.Market, error) {
	return c.markets.ListActive(ctx, limit, offset)
}

// QueryUserBet fetches a user's active bet on a market, if any.
func (c *Controller) QueryUserBet(ctx context.Context, userID uuid.UUID, marketID string) (*models.Bet, error) {
	bet, err := c.bets.GetActiveByUserMarket(ctx, userID, marketID)
	if err != nil {
		return nil, models.ErrBetNotFound
	}
	return bet, nil
}

// QueryUserBets lists a user's bets across all markets.
func (c *Controller) QueryUserBets(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Bet, error) {
	return c.bets.ListByUser(ctx, userID, limit, offset)
}

// QueryMarketPool returns the per-outcome stake totals for a market.
func (c *Controller) QueryMarketPool(ctx context.Context, marketID string) (models.OutcomeTotals, error) {
	market, err := c.markets.GetByID(ctx, marketID)
	if err != nil {
		return nil, models.ErrRecordNotFound
	}
	return market.PerOutcomeTotal, nil
}

// QueryTotalPoolSize returns a market's total staked amount.
func (c *Controller) QueryTotalPoolSize(ctx context.Context, marketID string) (decimal.Decimal, error) {
	market, err := c.markets.GetByID(ctx, marketID)
	if err != nil {
		return decimal.Zero, models.ErrRecordNotFound
	}
	return market.TotalStaked, nil
}

// GetMarketAnalytics reports the basic derived metrics for a market: total
// staked, per-outcome split, dispute stake total, and current state.
type MarketAnalytics struct {
	MarketID           string               `json:"market_id"`
	State              models.MarketState   `json:"state"`
	TotalStaked        decimal.Decimal      `json:"total_staked"`
	PerOutcomeTotal    models.OutcomeTotals `json:"per_outcome_total"`
	DisputeStakesTotal decimal.Decimal      `json:"dispute_stakes_total"`
}

// GetMarketAnalytics reports the basic derived metrics for a market.
func (c *Controller) GetMarketAnalytics(ctx context.Context, marketID string) (*MarketAnalytics, error) {
	market, err := c.markets.GetByID(ctx, marketID)
	if err != nil {
		return nil, models.ErrRecordNotFound
	}
	return &MarketAnalytics{
		MarketID:           market.ID,
		State:              market.State,
		TotalStaked:        market.TotalStaked,
		PerOutcomeTotal:    market.PerOutcomeTotal,
		DisputeStakesTotal: market.DisputeStakesTotal,
	}, nil
}

// QueryUserBalance returns identity's current available balance in currency.
func (c *Controller) QueryUserBalance(ctx context.Context, identity uuid.UUID, currency string) (decimal.Decimal, error) {
	return c.balances.Balance(ctx, identity, currency)
}

// QueryEventDetails fetches a single audit event by ID.
func (c *Controller) QueryEventDetails(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	return c.events.GetByID(ctx, eventID)
}

// QueryEventStatus returns the topic of the event with the given ID, or
// ErrRecordNotFound when no such event was recorded, for callers that only
// need to confirm an entrypoint's side effects landed.
func (c *Controller) QueryEventStatus(ctx context.Context, eventID uuid.UUID) (string, error) {
	event, err := c.events.GetByID(ctx, eventID)
	if err != nil {
		return "", models.ErrRecordNotFound
	}
	return event.Topic, nil
}

// QueryContractState reports the engine's singleton instance state: the
// market counter (one increment per created market) and reentrancy flag.
func (c *Controller) QueryContractState(ctx context.Context) (*models.InstanceState, error) {
	return c.instance.GetState(ctx)
}
