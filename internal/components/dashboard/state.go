package dashboard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"sweetconsole/internal/components/auth"
	"sweetconsole/internal/components/catalog"
)

var (
	ErrNotAdmin        = errors.New("Only admin can delete sweets.")
	ErrMissingFields   = errors.New("Please fill in all fields")
	ErrInvalidQuantity = errors.New("Please enter a valid quantity")
	ErrUnknownSweet    = errors.New("unknown sweet")

	validate = validator.New()
)

// Modal kinds. Exactly one modal can be open at a time.
type Modal int

const (
	ModalNone Modal = iota
	ModalAdd
	ModalEdit
	ModalRestock
)

type (
	// State is the dashboard's copy of the catalog plus the modal state
	// machine driving the add/edit/restock flows. A failed submission
	// keeps the modal open with the draft retained for correction.
	State struct {
		mu       sync.Mutex
		service  *catalog.Service
		sessions *auth.Service
		logger   zerolog.Logger

		items   []catalog.Sweet
		search  string
		listErr string

		modal      Modal
		selected   catalog.ID
		draft      catalog.Draft
		modalErr   string
		submitting bool
	}

	// ModalView is a render snapshot of the open modal.
	ModalView struct {
		Kind       Modal
		Draft      catalog.Draft
		Error      string
		Submitting bool
		Selected   catalog.Sweet
	}

	Totals struct {
		Products int
		Revenue  float64
		Stock    int
	}
)

// Template helpers.
func (v ModalView) IsAdd() bool     { return v.Kind == ModalAdd }
func (v ModalView) IsEdit() bool    { return v.Kind == ModalEdit }
func (v ModalView) IsRestock() bool { return v.Kind == ModalRestock }

func NewState(service *catalog.Service, sessions *auth.Service, logger zerolog.Logger) *State {
	return &State{
		service:  service,
		sessions: sessions,
		logger:   logger.With().Str("component", "dashboard").Logger(),
	}
}

// Load refetches the catalog into the dashboard's local list.
func (s *State) Load(ctx context.Context) error {
	sweets, err := s.service.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.listErr = err.Error()
		return err
	}
	s.items = sweets
	s.listErr = ""
	return nil
}

func (s *State) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = query
}

func (s *State) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// Filtered returns the rows matching the search query: a case-insensitive
// substring match over name and category. The underlying list is never
// mutated.
func (s *State) Filtered() []catalog.Sweet {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(s.search)
	filtered := make([]catalog.Sweet, 0, len(s.items))
	for _, sweet := range s.items {
		if strings.Contains(strings.ToLower(sweet.Name), query) ||
			strings.Contains(strings.ToLower(sweet.Category), query) {
			filtered = append(filtered, sweet)
		}
	}
	return filtered
}

func (s *State) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Totals{Products: len(s.items)}
	for _, sweet := range s.items {
		t.Revenue += sweet.Price * float64(sweet.Stock)
		t.Stock += sweet.Stock
	}
	return t
}

func (s *State) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listErr
}

// OpenAdd opens the add modal with an empty draft.
func (s *State) OpenAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modal = ModalAdd
	s.selected = ""
	s.draft = catalog.Draft{}
	s.modalErr = ""
}

// OpenEdit opens the edit modal seeded from the selected item's fields.
func (s *State) OpenEdit(id catalog.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrUnknownSweet
	}
	sweet := s.items[i]
	s.modal = ModalEdit
	s.selected = id
	s.draft = catalog.Draft{
		Name:     sweet.Name,
		Category: sweet.Category,
		Price:    strconv.Itoa(int(sweet.Price)),
		Stock:    strconv.Itoa(sweet.Stock),
		Image:    sweet.Image,
	}
	s.modalErr = ""
	return nil
}

// OpenRestock opens the restock modal with an empty quantity field; the
// selected item's current stock is shown read-only.
func (s *State) OpenRestock(id catalog.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return ErrUnknownSweet
	}
	s.modal = ModalRestock
	s.selected = id
	s.draft = catalog.Draft{}
	s.modalErr = ""
	return nil
}

// CloseModal cancels whichever modal is open and clears the draft.
func (s *State) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeModalLocked()
}

func (s *State) SetDraft(draft catalog.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
}

func (s *State) ModalView() ModalView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := ModalView{
		Kind:       s.modal,
		Draft:      s.draft,
		Error:      s.modalErr,
		Submitting: s.submitting,
	}
	if i := s.indexOf(s.selected); i >= 0 {
		view.Selected = s.items[i]
	}
	return view
}

// SubmitAdd creates a sweet from the draft. On success the new row is
// appended and the modal closes; on failure the modal stays open with the
// error shown and the draft untouched.
func (s *State) SubmitAdd(ctx context.Context) error {
	draft, err := s.beginSubmit(ModalAdd)
	if err != nil {
		return err
	}

	created, err := s.service.Create(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.modalErr = err.Error()
		return err
	}
	s.items = append(s.items, *created)
	s.closeModalLocked()
	return nil
}

// SubmitEdit updates the selected sweet from the draft and replaces the
// matching row with the server's normalized item.
func (s *State) SubmitEdit(ctx context.Context) error {
	draft, err := s.beginSubmit(ModalEdit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	id := s.selected
	s.mu.Unlock()

	updated, err := s.service.Update(ctx, id, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.modalErr = err.Error()
		return err
	}
	if i := s.indexOf(id); i >= 0 {
		s.items[i] = *updated
	}
	s.closeModalLocked()
	return nil
}

// SubmitRestock posts the entered quantity to the restock endpoint and
// replaces the row with the server's authoritative stock.
func (s *State) SubmitRestock(ctx context.Context) error {
	s.mu.Lock()
	if s.modal != ModalRestock {
		s.mu.Unlock()
		return ErrUnknownSweet
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(s.draft.Stock))
	if err != nil || quantity < 1 {
		s.modalErr = ErrInvalidQuantity.Error()
		s.mu.Unlock()
		return ErrInvalidQuantity
	}
	id := s.selected
	s.submitting = true
	s.mu.Unlock()

	updated, err := s.service.Restock(ctx, id, quantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.modalErr = err.Error()
		return err
	}
	if i := s.indexOf(id); i >= 0 {
		s.items[i] = *updated
	}
	s.closeModalLocked()
	return nil
}

// Delete removes a sweet. The confirmation step happens client-side
// before this is reached; only administrators may delete.
func (s *State) Delete(ctx context.Context, id catalog.ID) error {
	if !s.sessions.IsAdmin() {
		s.mu.Lock()
		s.listErr = ErrNotAdmin.Error()
		s.mu.Unlock()
		return ErrNotAdmin
	}

	if err := s.service.Delete(ctx, id); err != nil {
		s.mu.Lock()
		s.listErr = err.Error()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.listErr = ""
	return nil
}

// beginSubmit validates the draft's required fields before any network
// call and flips the submitting flag for the given modal.
func (s *State) beginSubmit(kind Modal) (catalog.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modal != kind {
		return catalog.Draft{}, ErrUnknownSweet
	}
	if err := validate.Struct(s.draft); err != nil {
		s.modalErr = ErrMissingFields.Error()
		return catalog.Draft{}, ErrMissingFields
	}
	s.submitting = true
	s.modalErr = ""
	return s.draft, nil
}

func (s *State) closeModalLocked() {
	s.modal = ModalNone
	s.selected = ""
	s.draft = catalog.Draft{}
	s.modalErr = ""
}

func (s *State) indexOf(id catalog.ID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
