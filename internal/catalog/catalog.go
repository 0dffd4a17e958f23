// Package catalog holds the fixed product and store lists the bot offers.
package catalog

import (
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// Self-test fixtures. TestLocation is the sentinel location the prober
// answers locally.
const (
	TestProductName = "Test iPhone"
	TestLocation    = "TEST_STORE"
	TestPartNumber  = "TEST123"
)

var products = []domain.Product{
	{ID: "ip17pm_2t_cosmic", DisplayName: "2TB Cosmic", PartNumber: "MFYK4J/A"},
	{ID: "ip17pm_1t_cosmic", DisplayName: "1TB Cosmic", PartNumber: "MFYG4J/A"},
	{ID: "ip17pm_512_cosmic", DisplayName: "512GB Cosmic", PartNumber: "MFYD4J/A"},
	{ID: "ip17pm_256_cosmic", DisplayName: "256GB Cosmic", PartNumber: "MFY94J/A"},
	{ID: "ip17pm_256_white", DisplayName: "256GB Trắng", PartNumber: "MFY84J/A"},
	{ID: "ip17pm_512_white", DisplayName: "512GB Trắng", PartNumber: "MFYC4J/A"},
	{ID: "ip17pm_1t_white", DisplayName: "1TB Trắng", PartNumber: "MFYF4J/A"},
	{ID: "ip17pm_2t_white", DisplayName: "2TB Trắng", PartNumber: "MFYJ4J/A"},
	{ID: "ip17pm_256_blue", DisplayName: "256GB Xanh", PartNumber: "MFYA4J/A"},
	{ID: "ip17pm_512_blue", DisplayName: "512GB Xanh", PartNumber: "MFYE4J/A"},
	{ID: "ip17pm_1t_blue", DisplayName: "1TB Xanh", PartNumber: "MFYH4J/A"},
	{ID: "ip17pm_2t_blue", DisplayName: "2TB Xanh", PartNumber: "MFYL4J/A"},
}

var stores = []string{
	"Shinjuku", "Ginza", "Omotesando", "Marunouchi", "Shibuya", "Roppongi",
	"Yokohama", "Nagoya Sakae", "Fukuoka", "Sapporo",
	"Osaka Shinsaibashi", "Kobe", "Sendai Ichibancho",
}

// Products returns the catalog in display order.
func Products() []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}

// Stores returns the store names in display order. Store names double as
// the retailer location codes.
func Stores() []string {
	out := make([]string, len(stores))
	copy(out, stores)
	return out
}

// Product looks up a product by its catalog ID.
func Product(id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// ProductByName looks up a product by its display name.
func ProductByName(name string) (domain.Product, bool) {
	for _, p := range products {
		if p.DisplayName == name {
			return p, true
		}
	}
	return domain.Product{}, false
}

// IsStore reports whether name is a known store.
func IsStore(name string) bool {
	for _, s := range stores {
		if s == name {
			return true
		}
	}
	return false
}

// ValidKey reports whether a watch key names a known product and store, or
// is the self-test key.
func ValidKey(k domain.WatchKey) bool {
	if k.Product == TestProductName && k.Store == TestLocation {
		return true
	}
	_, ok := ProductByName(k.Product)
	return ok && IsStore(k.Store)
}

// TestEntry returns the watch entry seeded by the self-test command.
func TestEntry() domain.WatchEntry {
	return domain.WatchEntry{
		Key:        domain.NewWatchKey(TestProductName, TestLocation),
		PartNumber: TestPartNumber,
	}
}
