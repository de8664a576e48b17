package shop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sweetconsole/internal/components/catalog"
)

// How long the purchase success banner stays up.
const defaultBannerTTL = 3 * time.Second

var (
	ErrUnknownSweet    = errors.New("unknown sweet")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and the available stock")
)

type (
	// Item is a catalog row plus the per-row input state the storefront
	// tracks for it: the entered purchase quantity and whether a purchase
	// is in flight.
	Item struct {
		catalog.Sweet
		Quantity   int
		Purchasing bool
	}

	// State is the storefront's copy of the catalog. Each purchase
	// replaces only the affected row with the server's response; the rest
	// of the list is untouched.
	State struct {
		mu      sync.Mutex
		service *catalog.Service
		logger  zerolog.Logger

		items       []Item
		actionErr   string
		success     string
		bannerTTL   time.Duration
		bannerTimer *time.Timer
	}
)

func NewState(service *catalog.Service, logger zerolog.Logger) *State {
	return &State{
		service:   service,
		logger:    logger.With().Str("component", "shop").Logger(),
		bannerTTL: defaultBannerTTL,
	}
}

// Load refetches the catalog and resets every row's quantity input to 1.
func (s *State) Load(ctx context.Context) error {
	sweets, err := s.service.GetAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.actionErr = err.Error()
		s.mu.Unlock()
		return err
	}

	items := make([]Item, len(sweets))
	for i, sweet := range sweets {
		items[i] = Item{Sweet: sweet, Quantity: 1}
	}

	s.mu.Lock()
	s.items = items
	s.actionErr = ""
	s.mu.Unlock()
	return nil
}

// Items returns a snapshot of the rendered list, order preserved.
func (s *State) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

func (s *State) SetQuantity(id catalog.ID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items[i].Quantity = quantity
	}
}

// CanPurchase reports whether the buy control for the row is enabled: the
// entered quantity must lie in [1, stock] and no purchase may be in flight.
func (s *State) CanPurchase(id catalog.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	item := s.items[i]
	return !item.Purchasing && item.Quantity >= 1 && item.Quantity <= item.Stock
}

// Purchase buys the row's entered quantity and reconciles the single
// affected row with the server's authoritative item.
func (s *State) Purchase(ctx context.Context, id catalog.ID) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrUnknownSweet
	}
	item := s.items[i]
	if item.Purchasing || item.Quantity < 1 || item.Quantity > item.Stock {
		s.mu.Unlock()
		return ErrInvalidQuantity
	}
	s.items[i].Purchasing = true
	quantity := item.Quantity
	s.mu.Unlock()

	updated, err := s.service.Purchase(ctx, id, quantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if i = s.indexOf(id); i >= 0 {
		s.items[i].Purchasing = false
	}
	if err != nil {
		s.actionErr = err.Error()
		return err
	}
	if i >= 0 {
		s.items[i] = Item{Sweet: *updated, Quantity: 1}
	}
	s.actionErr = ""
	s.setSuccessLocked("Purchase successful!")
	return nil
}

func (s *State) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actionErr
}

func (s *State) Success() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success
}

// setSuccessLocked shows the banner and arms its auto-dismiss timer,
// restarting the countdown if a banner is already up.
func (s *State) setSuccessLocked(msg string) {
	s.success = msg
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
	}
	s.bannerTimer = time.AfterFunc(s.bannerTTL, func() {
		s.mu.Lock()
		s.success = ""
		s.mu.Unlock()
	})
}

func (s *State) indexOf(id catalog.ID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
