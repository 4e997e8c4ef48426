package dto

import "time"

type AdminLoginRequest struct {
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}

type FlagItemRequest struct {
	Flagged bool `json:"flagged"`
}

type AdminStatsResponse struct {
	TotalItems     int `json:"total_items"`
	FlaggedItems   int `json:"flagged_items"`
	TotalReports   int `json:"total_reports"`
	PendingReports int `json:"pending_reports"`
}
