package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dlclark/regexp2"
)

// At least one lower case letter, one upper case letter and one digit.
var passwordPattern = regexp2.MustCompile(`^(?=.*[a-z])(?=.*[A-Z])(?=.*\d).*$`, regexp2.None)

func passwordComplexity(value interface{}) error {
	password, _ := value.(string)

	ok, err := passwordPattern.MatchString(password)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("must contain an upper case letter, a lower case letter and a digit")
	}

	return nil
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Wishlist string `json:"wishlist"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 64), validation.By(passwordComplexity)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Wishlist, validation.Length(0, 2000)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}
