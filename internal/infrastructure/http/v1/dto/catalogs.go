package dto

// CreateDistrictRequest creates a delivery territory.
type CreateDistrictRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateShopRequest creates a retail point inside a district.
type CreateShopRequest struct {
	Name       string `json:"name" binding:"required"`
	DistrictID string `json:"districtId" binding:"required"`
}

// CreateProductRequest creates a catalog product. Price fields are
// strings so "15 000,50" style input survives binding; they are parsed
// by the product service.
type CreateProductRequest struct {
	Name            string `json:"name" binding:"required"`
	Kind            string `json:"kind"`
	Brand           string `json:"brand"`
	PricePerKg      string `json:"pricePerKg"`
	InPricePerPack  string `json:"inPricePerPack"`
	OutPricePerPack string `json:"outPricePerPack"`
}

// UpdatePriceRequest sets or clears the per-kg selling price.
// An empty string clears the price.
type UpdatePriceRequest struct {
	PricePerKg string `json:"pricePerKg"`
}

// SetActiveRequest toggles product visibility.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
