package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}

type Register struct {
	Username string `validate:"required"        json:"username"`
	Email    string `validate:"required,email"  json:"email"`
	Password string `validate:"required,min=8"  json:"password"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("username", r.Username)
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R Register
	return json.Marshal(R(r))
}
