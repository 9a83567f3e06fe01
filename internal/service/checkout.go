package service

import (
	"context"
	"errors"
	"strconv"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"
	"furniture-rental-backend/internal/utils"
)

type checkoutService struct {
	store      repository.Store
	contracts  ContractResolver
	ledger     InventoryLedger
	maxRetries int
	now        Clock
}

// NewCheckoutService builds the orchestrator that turns an open cart into a
// paid order. A storage conflict restarts the whole attempt up to maxRetries
// more times.
func NewCheckoutService(store repository.Store, contracts ContractResolver, ledger InventoryLedger, maxRetries int, now Clock) CheckoutService {
	return &checkoutService{
		store:      store,
		contracts:  contracts,
		ledger:     ledger,
		maxRetries: maxRetries,
		now:        now,
	}
}

// checkoutRun tracks one attempt through CART_OPEN -> VALIDATING ->
// COMMITTING -> CLOSED.
type checkoutRun struct {
	ctx   context.Context
	req   domain.CheckoutRequest
	state domain.CheckoutState
}

func (r *checkoutRun) transition(to domain.CheckoutState) {
	logger.StateTransition(r.ctx, "checkout", string(r.state), string(to),
		"memberID", r.req.MemberID, "propertyID", r.req.PropertyID)
	r.state = to
}

func (r *checkoutRun) fail(err error) error {
	stage := r.state
	r.transition(domain.CheckoutStateFailed)
	return &domain.CheckoutError{Stage: stage, Err: err}
}

// validated is everything the commit needs, read under the cart lock.
type validated struct {
	contract *domain.RentalContract
	cart     *domain.Cart
	products map[string]domain.Product
}

func (s *checkoutService) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	logger.EnterMethod("checkoutService.Checkout", "memberID", req.MemberID, "propertyID", req.PropertyID)

	var result *domain.CheckoutResult
	attempts, err := withRetry(ctx, "checkoutService.Checkout", s.maxRetries, func() error {
		var err error
		result, err = s.attempt(ctx, req)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("checkoutService.Checkout", err, "memberID", req.MemberID, "attempts", attempts)
		return nil, err
	}
	result.Attempts = attempts

	logger.ExitMethod("checkoutService.Checkout", "orderID", result.Order.ID, "totalCents", result.Order.TotalCents, "attempts", attempts)
	return result, nil
}

// attempt runs validation and commit in one transaction. Validation only
// reads, so a failure at either stage leaves no rows behind.
func (s *checkoutService) attempt(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	run := &checkoutRun{ctx: ctx, req: req, state: domain.CheckoutStateCartOpen}
	var result *domain.CheckoutResult

	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		run.transition(domain.CheckoutStateValidating)
		v, err := s.validate(ctx, req, repos)
		if err != nil {
			return run.fail(err)
		}

		run.transition(domain.CheckoutStateCommitting)
		result, err = s.commit(ctx, req, v, repos)
		if err != nil {
			return run.fail(err)
		}
		return nil
	})
	if err != nil {
		var ce *domain.CheckoutError
		if !errors.As(err, &ce) {
			// Failed on commit of the transaction itself.
			err = run.fail(err)
		}
		return nil, err
	}

	run.transition(domain.CheckoutStateClosed)
	result.State = run.state
	return result, nil
}

func (s *checkoutService) validate(ctx context.Context, req domain.CheckoutRequest, repos repository.Repositories) (*validated, error) {
	if !req.PaymentConfirmed {
		return nil, domain.ErrPaymentNotConfirmed
	}

	contract, err := s.contracts.WithRepository(repos.Contracts).ResolveActiveContract(ctx, req.MemberID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrNoActiveContract
	}

	cartID := req.CartID
	if cartID == "" {
		open, err := repos.Carts.FindOpen(ctx, req.MemberID, req.PropertyID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		if err != nil {
			return nil, err
		}
		cartID = open.ID
	}

	cart, err := repos.Carts.GetForUpdate(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.MemberID != req.MemberID || cart.PropertyID != req.PropertyID {
		return nil, domain.ErrNotFound
	}
	if !cart.IsOpen() {
		return nil, domain.ErrCartAlreadyOrdered
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	products, err := repos.Products.GetByIDs(ctx, productIDs(cart.Items))
	if err != nil {
		return nil, err
	}
	for _, it := range cart.Items {
		if p, ok := products[it.ProductID]; !ok || !p.Active {
			return nil, &domain.ProductError{ProductID: it.ProductID}
		}
	}

	return &validated{contract: contract, cart: cart, products: products}, nil
}

func (s *checkoutService) commit(ctx context.Context, req domain.CheckoutRequest, v *validated, repos repository.Repositories) (*domain.CheckoutResult, error) {
	now := s.now()
	contracts := s.contracts.WithRepository(repos.Contracts)
	days := contracts.BillableDays(v.contract, now)
	start, end := contracts.RentalWindow(v.contract, now)

	items := make([]domain.OrderItem, 0, len(v.cart.Items))
	var total int64
	for _, ci := range v.cart.Items {
		rate := v.products[ci.ProductID].DailyRateCents
		item := domain.OrderItem{
			ProductID:         ci.ProductID,
			Quantity:          ci.Quantity,
			DailyRateSnapshot: rate,
			RentalDays:        days,
			SubtotalCents:     utils.LineSubtotalCents(rate, ci.Quantity, days),
		}
		total += item.SubtotalCents
		items = append(items, item)
	}

	order := &domain.Order{
		MemberID:   req.MemberID,
		PropertyID: req.PropertyID,
		ContractID: v.contract.ID,
		Status:     domain.OrderStatusPaid,
		TotalCents: total,
	}
	if err := repos.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := repos.Orders.CreateItem(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	order.Items = items

	ledger := s.ledger.WithRepository(repos.Inventory)
	sourceID := strconv.FormatInt(order.ID, 10)
	for _, it := range items {
		if _, err := ledger.Reserve(ctx, it.ProductID, it.Quantity, domain.InventorySourceOrder, sourceID); err != nil {
			return nil, err
		}
	}

	history := make([]domain.OrderHistory, 0, len(items))
	for i := range items {
		product := v.products[items[i].ProductID]
		h := ProjectOrderHistory(order, &items[i], &product, start, end)
		if err := repos.History.Create(ctx, &h); err != nil {
			return nil, err
		}
		history = append(history, h)
	}

	if err := repos.Carts.Close(ctx, v.cart.ID); err != nil {
		return nil, err
	}

	return &domain.CheckoutResult{
		Order:       order,
		History:     history,
		CompletedAt: now,
	}, nil
}
