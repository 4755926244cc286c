package dto

// GovernorateRequest captures create and update payloads for governorates.
type GovernorateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// RegionRequest captures create and update payloads for health administrations.
type RegionRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Description   string `json:"description" validate:"max=1000"`
	GovernorateID string `json:"governorate_id" validate:"required"`
}
