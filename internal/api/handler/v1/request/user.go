package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateWishlistRequest struct {
	Wishlist string `json:"wishlist"`
}

func (r UpdateWishlistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Wishlist, validation.Required, validation.Length(1, 2000)),
	)
}
