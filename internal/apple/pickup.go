package apple

import (
	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// pickupAvailable is the pickupDisplay value for an in-stock part.
const pickupAvailable = "available"

// Placeholders for store fields the endpoint leaves out.
const (
	unknownAddress = "Address unknown"
	unknownPhone   = "No phone number"
	unknownEmail   = "No email"
)

type pickupResponse struct {
	Body struct {
		Stores []pickupStore `json:"stores"`
	} `json:"body"`
}

type pickupStore struct {
	StoreName   string `json:"storeName"`
	StoreEmail  string `json:"storeEmail"`
	PhoneNumber string `json:"phoneNumber"`
	Address     struct {
		Address string `json:"address"`
	} `json:"address"`
	PartsAvailability map[string]partAvailability `json:"partsAvailability"`
}

type partAvailability struct {
	PickupDisplay string `json:"pickupDisplay"`
}

func (r *pickupResponse) availableStores(partNumber string) []domain.StoreResult {
	out := []domain.StoreResult{}
	for i := range r.Body.Stores {
		s := &r.Body.Stores[i]
		if s.PartsAvailability[partNumber].PickupDisplay != pickupAvailable {
			continue
		}
		out = append(out, domain.StoreResult{
			Name:    s.StoreName,
			Address: orDefault(s.Address.Address, unknownAddress),
			Phone:   orDefault(s.PhoneNumber, unknownPhone),
			Email:   orDefault(s.StoreEmail, unknownEmail),
		})
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// SentinelStore is the synthetic result returned for the self-test location.
func SentinelStore() domain.StoreResult {
	return domain.StoreResult{
		Name:    "Apple Store " + catalog.TestLocation,
		Address: "123 Test Street, Tokyo",
		Phone:   "03-0000-0000",
		Email:   "teststore@apple.com",
	}
}
