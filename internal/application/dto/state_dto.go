package dto

// StateResponse snapshot completo que consume la vista (REST y websocket).
type StateResponse struct {
	Products ProductPageResponse `json:"products"`
	Cart     CartResponse        `json:"cart"`
	Wishlist WishlistResponse    `json:"wishlist"`
	Profile  ProfileResponse     `json:"profile"`
	Notices  []NoticeResponse    `json:"notices"`
}
