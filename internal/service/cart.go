package service

import (
	"context"
	"errors"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"
	"furniture-rental-backend/internal/utils"
)

const cartConflictRetries = 2

type cartService struct {
	store     repository.Store
	contracts ContractResolver
	now       Clock
}

func NewCartService(store repository.Store, contracts ContractResolver, now Clock) CartService {
	return &cartService{
		store:     store,
		contracts: contracts,
		now:       now,
	}
}

func (s *cartService) FindOrCreateActiveCart(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error) {
	return s.store.Repos().Carts.FindOrCreateOpen(ctx, memberID, propertyID)
}

// GetCart returns the open cart with display data: live prices, stock and
// the days left on the active contract. Estimates use the rental days the
// member selected, not the contract-derived days billed at checkout.
func (s *cartService) GetCart(ctx context.Context, memberID, propertyID int32) (*domain.CartSummary, error) {
	logger.EnterMethod("cartService.GetCart", "memberID", memberID, "propertyID", propertyID)

	repos := s.store.Repos()
	cart, err := repos.Carts.FindOrCreateOpen(ctx, memberID, propertyID)
	if err != nil {
		logger.ExitMethodWithError("cartService.GetCart", err, "memberID", memberID)
		return nil, err
	}

	ids := productIDs(cart.Items)
	products, err := repos.Products.GetByIDs(ctx, ids)
	if err != nil {
		logger.ExitMethodWithError("cartService.GetCart", err, "cartID", cart.ID)
		return nil, err
	}
	stock, err := repos.Inventory.GetMany(ctx, ids)
	if err != nil {
		logger.ExitMethodWithError("cartService.GetCart", err, "cartID", cart.ID)
		return nil, err
	}

	summary := &domain.CartSummary{Cart: cart, Lines: make([]domain.CartLine, 0, len(cart.Items))}
	for _, it := range cart.Items {
		line := domain.CartLine{CartItem: it}
		if p, ok := products[it.ProductID]; ok {
			line.ProductName = p.Name
			line.DailyRateCents = p.DailyRateCents
			line.ProductAvailable = p.Active
			line.EstimateCents = utils.LineSubtotalCents(p.DailyRateCents, it.Quantity, it.RentalDays)
		}
		if rec, ok := stock[it.ProductID]; ok {
			line.AvailableStock = rec.AvailableQuantity
		}
		summary.EstimatedCents += line.EstimateCents
		summary.Lines = append(summary.Lines, line)
	}

	contract, err := s.contracts.ResolveActiveContract(ctx, memberID, propertyID)
	if err != nil {
		logger.ExitMethodWithError("cartService.GetCart", err, "cartID", cart.ID)
		return nil, err
	}
	if contract != nil {
		summary.HasContract = true
		summary.ContractEnd = contract.EndDate
		summary.DaysLeft = s.contracts.BillableDays(contract, s.now())
	}

	logger.ExitMethod("cartService.GetCart", "cartID", cart.ID, "lines", len(summary.Lines))
	return summary, nil
}

// AddItem puts quantity units of a product into the member's open cart for
// the property, creating the cart on first use. Adding a product that is
// already in the cart increases its quantity.
func (s *cartService) AddItem(ctx context.Context, memberID, propertyID int32, productID string, quantity, rentalDays int32) (*domain.Cart, error) {
	logger.EnterMethod("cartService.AddItem", "memberID", memberID, "propertyID", propertyID, "productID", productID, "quantity", quantity)

	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if rentalDays < 0 {
		return nil, domain.ErrInvalidRentalDays
	}

	var cart *domain.Cart
	_, err := withRetry(ctx, "cartService.AddItem", cartConflictRetries, func() error {
		return s.store.WithinTx(ctx, func(repos repository.Repositories) error {
			product, err := repos.Products.GetByID(ctx, productID)
			if errors.Is(err, domain.ErrNotFound) || (err == nil && !product.Active) {
				return &domain.ProductError{ProductID: productID}
			}
			if err != nil {
				return err
			}

			open, err := repos.Carts.FindOrCreateOpen(ctx, memberID, propertyID)
			if err != nil {
				return err
			}
			locked, err := repos.Carts.GetForUpdate(ctx, open.ID)
			if err != nil {
				return err
			}
			if !locked.IsOpen() {
				// Closed by a checkout between the lookup and the lock.
				return domain.ErrStorageConflict
			}

			item := &domain.CartItem{
				CartID:     locked.ID,
				ProductID:  productID,
				Quantity:   quantity,
				RentalDays: rentalDays,
			}
			if err := repos.Carts.AddItem(ctx, item); err != nil {
				return err
			}

			cart, err = repos.Carts.GetByID(ctx, locked.ID)
			return err
		})
	})
	if err != nil {
		logger.ExitMethodWithError("cartService.AddItem", err, "memberID", memberID, "productID", productID)
		return nil, err
	}

	logger.ExitMethod("cartService.AddItem", "cartID", cart.ID, "items", len(cart.Items))
	return cart, nil
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, memberID int32, itemID string, quantity int32) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return s.mutateOwnedItem(ctx, "cartService.UpdateItemQuantity", memberID, itemID, func(repos repository.Repositories) error {
		return repos.Carts.UpdateItemQuantity(ctx, itemID, quantity)
	})
}

func (s *cartService) RemoveItem(ctx context.Context, memberID int32, itemID string) error {
	return s.mutateOwnedItem(ctx, "cartService.RemoveItem", memberID, itemID, func(repos repository.Repositories) error {
		return repos.Carts.RemoveItem(ctx, itemID)
	})
}

// mutateOwnedItem locks the item's cart and runs fn only if the cart belongs
// to memberID and is still open. Items of other members look missing.
func (s *cartService) mutateOwnedItem(ctx context.Context, op string, memberID int32, itemID string, fn func(repos repository.Repositories) error) error {
	logger.EnterMethod(op, "memberID", memberID, "itemID", itemID)

	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		item, err := repos.Carts.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		cart, err := repos.Carts.GetForUpdate(ctx, item.CartID)
		if err != nil {
			return err
		}
		if cart.MemberID != memberID {
			return domain.ErrNotFound
		}
		if !cart.IsOpen() {
			return domain.ErrCartAlreadyOrdered
		}
		return fn(repos)
	})
	if err != nil {
		logger.ExitMethodWithError(op, err, "memberID", memberID, "itemID", itemID)
		return err
	}

	logger.ExitMethod(op, "itemID", itemID)
	return nil
}

// CancelCart discards an open cart when the member abandons payment.
// Ordered carts are part of the financial record and are never removed.
func (s *cartService) CancelCart(ctx context.Context, memberID int32, cartID string) error {
	logger.EnterMethod("cartService.CancelCart", "memberID", memberID, "cartID", cartID)

	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		cart, err := repos.Carts.GetForUpdate(ctx, cartID)
		if err != nil {
			return err
		}
		if cart.MemberID != memberID {
			return domain.ErrNotFound
		}
		if !cart.IsOpen() {
			return domain.ErrCartAlreadyOrdered
		}
		return repos.Carts.Delete(ctx, cartID)
	})
	if err != nil {
		logger.ExitMethodWithError("cartService.CancelCart", err, "cartID", cartID)
		return err
	}

	logger.ExitMethod("cartService.CancelCart", "cartID", cartID)
	return nil
}

func productIDs(items []domain.CartItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
