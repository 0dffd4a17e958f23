package bot

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCallback is returned for callback data that does not decode to a
// known action.
var ErrUnknownCallback = errors.New("unknown callback")

// Callback actions as they appear on the wire.
const (
	actionSelectProduct = "select_product"
	actionSelectStore   = "select_store"
	actionDeleteWatch   = "delete_watch"
)

// Callback is an inline button action. It is one of SelectProduct,
// SelectStore or DeleteWatch.
type Callback interface {
	// Encode renders the callback data ("action|arg1|arg2").
	Encode() string
	callback()
}

// SelectProduct is pressed on the product list.
type SelectProduct struct {
	ProductID string
}

// SelectStore is pressed on the store list of a product.
type SelectStore struct {
	ProductID string
	Store     string
}

// DeleteWatch is pressed on the watchlist. Key is the persisted watch key.
type DeleteWatch struct {
	Key string
}

func (c SelectProduct) Encode() string { return actionSelectProduct + "|" + c.ProductID }

func (c SelectStore) Encode() string {
	return actionSelectStore + "|" + c.ProductID + "|" + c.Store
}

func (c DeleteWatch) Encode() string { return actionDeleteWatch + "|" + c.Key }

func (SelectProduct) callback() {}
func (SelectStore) callback()   {}
func (DeleteWatch) callback()   {}

// ParseCallback decodes callback data. The watch key of delete_watch may
// itself contain "|", so only the first separator is significant there.
func ParseCallback(data string) (Callback, error) {
	action, rest, ok := strings.Cut(data, "|")
	if !ok || rest == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
	}

	switch action {
	case actionSelectProduct:
		return SelectProduct{ProductID: rest}, nil
	case actionSelectStore:
		product, store, ok := strings.Cut(rest, "|")
		if !ok || product == "" || store == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
		}
		return SelectStore{ProductID: product, Store: store}, nil
	case actionDeleteWatch:
		return DeleteWatch{Key: rest}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
	}
}
