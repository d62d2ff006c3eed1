package response

import "github.com/mpetrenko/secret-santa-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
