package catalog

import "encoding/json"

type (
	// ID is the API's opaque sweet identifier. The backend has returned
	// both numeric and string IDs across versions, so it is stored as a
	// string and decoded from either form.
	ID string

	// Sweet is a catalog item as the console sees it. The wire field for
	// the inventory count is "quantity"; the console canonically uses
	// Stock, populated on decode.
	Sweet struct {
		ID       ID      `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Stock    int     `json:"stock"`
		Image    string  `json:"image"`
	}

	// Draft carries raw form input for the add/edit/restock flows. Numeric
	// fields stay strings until submission, mirroring the text inputs they
	// come from; the service coerces them on the way out.
	Draft struct {
		Name     string `validate:"required"`
		Category string `validate:"required"`
		Price    string `validate:"required"`
		Stock    string `validate:"required"`
		Image    string
	}

	// sweetRequest is the create/update wire shape. The API expects the
	// inventory count under "quantity".
	sweetRequest struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Price    int    `json:"price"`
		Quantity int    `json:"quantity"`
		Image    string `json:"image"`
	}
)

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// UnmarshalJSON normalizes the inconsistent stock/quantity field. Quantity
// wins when the server sends it, then an explicit stock, then zero.
func (s *Sweet) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID       ID      `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Stock    *int    `json:"stock"`
		Quantity *int    `json:"quantity"`
		Image    string  `json:"image"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	s.ID = aux.ID
	s.Name = aux.Name
	s.Category = aux.Category
	s.Price = aux.Price
	s.Image = aux.Image

	switch {
	case aux.Quantity != nil:
		s.Stock = *aux.Quantity
	case aux.Stock != nil:
		s.Stock = *aux.Stock
	default:
		s.Stock = 0
	}
	return nil
}
