package dto

type RegisterBusinessRequest struct {
	Name                 string `json:"name"`
	AdminEmail           string `json:"adminEmail"`
	Description          string `json:"description"`
	AutoAcceptDeliveries bool   `json:"autoAcceptDeliveries"`
}

type ReviewBusinessRequest struct {
	PublicID      string `json:"publicId"`
	Decision      string `json:"decision"`
	TwoFactorCode string `json:"twoFactorCode"`
}

type ConfigAutoAcceptRequest struct {
	AutoAcceptDeliveries bool `json:"autoAcceptDeliveries"`
}

type SearchBusinessesRequest struct {
	Query   string `json:"query,omitempty"`
	Status  string `json:"status,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	LastKey string `json:"lastKey,omitempty"`
}

type BusinessResponse struct {
	PublicID             string `json:"publicId"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Status               string `json:"status"`
	AutoAcceptDeliveries bool   `json:"autoAcceptDeliveries"`
}

type SearchBusinessesResponse struct {
	Items   []BusinessResponse `json:"items"`
	LastKey *string            `json:"lastKey"`
}
