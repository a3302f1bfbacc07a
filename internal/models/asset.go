package models

import "github.com/shopspring/decimal"

// AssetType categorizes an asset for reporting and growth classification.
type AssetType string

const (
	AssetCash       AssetType = "cash"
	AssetEquity     AssetType = "equity"
	AssetRealEstate AssetType = "real_estate"
	AssetCrypto     AssetType = "crypto"
	AssetVehicle    AssetType = "vehicle"
	AssetRetirement AssetType = "401k"
	AssetOther      AssetType = "other"
)

// Asset represents a single asset position in a snapshot.
type Asset struct {
	Name   string          `json:"name"`
	Type   AssetType       `json:"type"`
	Value  decimal.Decimal `json:"value"`
	APY    decimal.Decimal `json:"apy"`
	Liquid bool            `json:"liquid"`
}

// IsGrowth reports whether the asset counts as an invested, growth-oriented
// holding (used by the level cascade, not by net worth).
func (a Asset) IsGrowth() bool {
	switch a.Type {
	case AssetEquity, AssetCrypto, AssetRetirement:
		return true
	}
	return false
}
