package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidSession  = errors.New("cart session is required")
)

const (
	MessageItemRemoved = "Item removed from cart"
	MessageCartCleared = "Cart cleared"
)

func messageUpdatedQuantity(name string) string { return "Updated quantity for " + name }
func messageAdded(name string) string           { return "Added " + name + " to cart" }

// Cart is a read view of one session's items. Totals are derived from the items on every read.
type Cart struct {
	Items      []model.CartItem `json:"items"`
	TotalItems int              `json:"total_items"`
	TotalPrice decimal.Decimal  `json:"total_price"`
}

func newCart(items []model.CartItem) *Cart {
	cart := &Cart{
		Items:      make([]model.CartItem, len(items)),
		TotalPrice: decimal.Zero,
	}
	copy(cart.Items, items)
	for _, item := range items {
		cart.TotalItems += item.Quantity
		cart.TotalPrice = cart.TotalPrice.Add(item.LineTotal())
	}
	return cart
}

// CartResult is a cart after a mutation plus the confirmation shown to the shopper, if any.
type CartResult struct {
	Cart    *Cart  `json:"cart"`
	Message string `json:"message,omitempty"`
}

type CartService interface {
	GetCart(ctx context.Context, session string) (*Cart, error)
	AddItem(ctx context.Context, session string, item model.CartItem) (*CartResult, error)
	AddProduct(ctx context.Context, session, productID, variant string, quantity int) (*CartResult, error)
	RemoveItem(ctx context.Context, session, productID string) (*CartResult, error)
	UpdateQuantity(ctx context.Context, session, productID string, quantity int) (*CartResult, error)
	ClearCart(ctx context.Context, session string) (*CartResult, error)
	EvictIdle(maxIdle time.Duration) int
}

// cartSession caches one session's items. refs and lastUsed are guarded by cartService.mu.
type cartSession struct {
	mu     sync.Mutex
	loaded bool
	items  []model.CartItem

	refs     int
	lastUsed time.Time
}

type cartService struct {
	repo      repository.CartRepository
	catalog   CatalogService
	notifier  SessionNotifier
	metrics   *metrics.CartMetrics
	namespace string

	mu       sync.Mutex
	sessions map[string]*cartSession
	now      func() time.Time
}

func NewCartService(
	repo repository.CartRepository,
	catalogService CatalogService,
	notifier SessionNotifier,
	cartMetrics *metrics.CartMetrics,
	namespace string,
) CartService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &cartService{
		repo:      repo,
		catalog:   catalogService,
		notifier:  notifier,
		metrics:   cartMetrics,
		namespace: namespace,
		sessions:  make(map[string]*cartSession),
		now:       time.Now,
	}
}

func (s *cartService) key(session string) string {
	return s.namespace + ":" + session
}

// acquire pins the cached session so EvictIdle leaves it alone until release.
func (s *cartService) acquire(session string) *cartSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.sessions[session]
	if !ok {
		cs = &cartSession{}
		s.sessions[session] = cs
	}
	cs.refs++
	return cs
}

func (s *cartService) release(cs *cartSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs.refs--
	cs.lastUsed = s.now()
}

// EvictIdle drops cached sessions unused for longer than maxIdle. Their carts stay in the
// repository and are loaded again on the next request.
func (s *cartService) EvictIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	evicted := 0
	for key, cs := range s.sessions {
		if cs.refs == 0 && cs.lastUsed.Before(cutoff) {
			delete(s.sessions, key)
			evicted++
		}
	}

	if evicted > 0 {
		logger.Debug("Evicted idle cart sessions", map[string]interface{}{
			"evicted":   evicted,
			"remaining": len(s.sessions),
		})
	}
	return evicted
}

// withSession runs fn with the session's items loaded and its lock held. When fn returns a new
// item list it is persisted before it replaces the cached one.
func (s *cartService) withSession(
	ctx context.Context,
	session string,
	fn func(items []model.CartItem) ([]model.CartItem, error),
) (*Cart, error) {
	if session == "" {
		return nil, ErrInvalidSession
	}

	cs := s.acquire(session)
	defer s.release(cs)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.loaded {
		items, err := s.load(ctx, session)
		if err != nil {
			return nil, err
		}
		cs.items = items
		cs.loaded = true
	}

	next, err := fn(cs.items)
	if err != nil {
		return nil, err
	}
	if next != nil {
		if err := s.save(ctx, session, next); err != nil {
			return nil, err
		}
		cs.items = next
	}
	return newCart(cs.items), nil
}

func (s *cartService) load(ctx context.Context, session string) ([]model.CartItem, error) {
	key := s.key(session)
	value, found, err := s.repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if !found {
		return []model.CartItem{}, nil
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		logger.Error("Failed to parse persisted cart, discarding it", err, map[string]interface{}{
			"key": key,
		})
		s.metrics.IncCorrupt()
		if delErr := s.repo.Delete(ctx, key); delErr != nil {
			logger.Warn("Failed to delete corrupt cart", map[string]interface{}{
				"key":   key,
				"error": delErr.Error(),
			})
		}
		return []model.CartItem{}, nil
	}
	if items == nil {
		items = []model.CartItem{}
	}

	logger.Debug("Cart loaded", map[string]interface{}{
		"key":   key,
		"count": len(items),
	})
	return items, nil
}

func (s *cartService) save(ctx context.Context, session string, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.repo.Save(ctx, s.key(session), string(data)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *cartService) publish(session string, result *CartResult) {
	s.notifier.NotifySession(session, model.NewNotification(model.NotificationTypeCart, result.Message, result.Cart))
}

func (s *cartService) GetCart(ctx context.Context, session string) (*Cart, error) {
	return s.withSession(ctx, session, func([]model.CartItem) ([]model.CartItem, error) {
		return nil, nil
	})
}

// AddItem merges item into the line with the same product id and variant, or appends a new line.
func (s *cartService) AddItem(ctx context.Context, session string, item model.CartItem) (*CartResult, error) {
	if item.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var message string
	cart, err := s.withSession(ctx, session, func(items []model.CartItem) ([]model.CartItem, error) {
		next := make([]model.CartItem, len(items), len(items)+1)
		copy(next, items)
		for i := range next {
			if next[i].SameLine(item) {
				next[i].Quantity += item.Quantity
				message = messageUpdatedQuantity(item.Name)
				return next, nil
			}
		}
		message = messageAdded(item.Name)
		return append(next, item), nil
	})
	if err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"product_id": item.ID,
			"variant":    item.Variant,
		})
		return nil, err
	}

	s.metrics.IncOperation("add")
	logger.Info("Item added to cart", map[string]interface{}{
		"product_id":  item.ID,
		"variant":     item.Variant,
		"quantity":    item.Quantity,
		"total_items": cart.TotalItems,
	})
	result := &CartResult{Cart: cart, Message: message}
	s.publish(session, result)
	return result, nil
}

// AddProduct builds a cart line from the active catalog, snapshotting name, image and price.
// The variant label is kept only when it names one of the product's variants.
func (s *cartService) AddProduct(ctx context.Context, session, productID, variant string, quantity int) (*CartResult, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	item := model.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.EffectivePrice(),
		Quantity: quantity,
		Image:    product.Image,
	}
	// An unknown variant name adds the base product.
	if v := product.FindVariant(variant); v != nil {
		item.Variant = v.Name
		item.Price = v.Price
		if v.Image != "" {
			item.Image = v.Image
		}
	}
	return s.AddItem(ctx, session, item)
}

// RemoveItem drops every line for productID, whatever its variant.
func (s *cartService) RemoveItem(ctx context.Context, session, productID string) (*CartResult, error) {
	cart, err := s.withSession(ctx, session, func(items []model.CartItem) ([]model.CartItem, error) {
		next := make([]model.CartItem, 0, len(items))
		for _, item := range items {
			if item.ID != productID {
				next = append(next, item)
			}
		}
		return next, nil
	})
	if err != nil {
		logger.Error("Failed to remove item from cart", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	s.metrics.IncOperation("remove")
	logger.Info("Item removed from cart", map[string]interface{}{
		"product_id": productID,
	})
	result := &CartResult{Cart: cart, Message: MessageItemRemoved}
	s.publish(session, result)
	return result, nil
}

// UpdateQuantity sets the quantity of every line for productID. A quantity of zero or less removes them.
func (s *cartService) UpdateQuantity(ctx context.Context, session, productID string, quantity int) (*CartResult, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, session, productID)
	}

	cart, err := s.withSession(ctx, session, func(items []model.CartItem) ([]model.CartItem, error) {
		next := make([]model.CartItem, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID == productID {
				next[i].Quantity = quantity
			}
		}
		return next, nil
	})
	if err != nil {
		logger.Error("Failed to update cart quantity", err, map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return nil, err
	}

	s.metrics.IncOperation("update")
	result := &CartResult{Cart: cart}
	s.publish(session, result)
	return result, nil
}

func (s *cartService) ClearCart(ctx context.Context, session string) (*CartResult, error) {
	cart, err := s.withSession(ctx, session, func([]model.CartItem) ([]model.CartItem, error) {
		return []model.CartItem{}, nil
	})
	if err != nil {
		logger.Error("Failed to clear cart", err)
		return nil, err
	}

	s.metrics.IncOperation("clear")
	logger.Info("Cart cleared")
	result := &CartResult{Cart: cart, Message: MessageCartCleared}
	s.publish(session, result)
	return result, nil
}
