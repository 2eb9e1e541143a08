package identity

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/dmitrymomot/hrportal/pkg/rbac"
)

// ID is an opaque server identifier. The backend emits both numbers and
// strings; both decode to the same value.
type ID string

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts JSON strings and numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Int returns the identifier as an integer when it is numeric.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// User is the account record returned by the server on login and refresh.
// It is replaced wholesale, never patched field by field.
type User struct {
	ID    ID        `json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Role  rbac.Role `json:"role,omitempty"`
}

// UnmarshalJSON maps the backend aliases (nome, perfil, profile) onto the
// canonical fields.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      ID        `json:"id"`
		Name    string    `json:"name"`
		Nome    string    `json:"nome"`
		Email   string    `json:"email"`
		Role    rbac.Role `json:"role"`
		Perfil  rbac.Role `json:"perfil"`
		Profile rbac.Role `json:"profile"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = User{ID: raw.ID, Name: raw.Name, Email: raw.Email, Role: raw.Role}
	if u.Name == "" {
		u.Name = raw.Nome
	}
	if u.Role == "" {
		u.Role = raw.Perfil
	}
	if u.Role == "" {
		u.Role = raw.Profile
	}
	return nil
}

// Clone returns a copy safe to hand out to other goroutines.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
