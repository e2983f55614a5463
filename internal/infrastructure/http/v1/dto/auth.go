package dto

// RefreshRequest asks for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// MagicLinkQuery carries the signed login parameters from the bot link.
type MagicLinkQuery struct {
	TgID     int64  `form:"tg_id" binding:"required"`
	Sig      string `form:"sig" binding:"required"`
	FullName string `form:"name"`
}

// MakeLinkQuery asks for a signed login link for one Telegram user.
type MakeLinkQuery struct {
	TgID int64 `form:"tg_id" binding:"required"`
}

// MakeLinkResponse returns the generated login link.
type MakeLinkResponse struct {
	URL string `json:"url"`
}
