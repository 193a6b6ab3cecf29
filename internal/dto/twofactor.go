package dto

type TwoFactorSetupResponse struct {
	ProvisioningURI string `json:"provisioningUri"`
}

type TwoFactorVerifyRequest struct {
	Code string `json:"code"`
}
