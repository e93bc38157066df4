package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Keoroanthony/go-foodorders/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid login or password")

// Authenticator checks a login/password pair and returns the user record.
type Authenticator interface {
	Authenticate(login, password string) (models.User, error)
}

type Credential struct {
	User     models.User
	Password string
}

// DefaultCredentials is the demo account table.
func DefaultCredentials() []Credential {
	return []Credential{
		{User: models.User{ID: "u1", Login: "admin", Name: "Администратор", Role: models.RoleAdmin}, Password: "admin123"},
		{User: models.User{ID: "u2", Login: "user", Name: "Пользователь", Role: models.RoleUser}, Password: "user123"},
	}
}

type account struct {
	user models.User
	hash []byte
}

// Directory is a fixed credential table. Passwords are only kept as bcrypt hashes.
type Directory struct {
	accounts map[string]account
}

// NewDirectory hashes every password with the given bcrypt cost
// (bcrypt.DefaultCost when cost is zero).
func NewDirectory(creds []Credential, cost int) (*Directory, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	d := &Directory{accounts: make(map[string]account, len(creds))}
	for _, c := range creds {
		if c.User.Login == "" {
			return nil, errors.New("credential without login")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", c.User.Login, err)
		}
		d.accounts[c.User.Login] = account{user: c.User, hash: hash}
	}
	return d, nil
}

func (d *Directory) Authenticate(login, password string) (models.User, error) {
	acc, ok := d.accounts[login]
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return acc.user, nil
}

func (d *Directory) Lookup(login string) (models.User, bool) {
	acc, ok := d.accounts[login]
	return acc.user, ok
}
