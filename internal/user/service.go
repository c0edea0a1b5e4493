package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ServiceInterface allows other packages (orders, reviews) to depend on the
// user service without importing its concrete wiring in tests.
type ServiceInterface interface {
	GetByID(id int) (User, error)
	Register(u User) (User, error)
	Authenticate(email, password string) (User, error)
	SocialSignIn(u User) (User, bool, error)
	UpdateProfile(id int, update User) (User, error)
}

type Service struct {
	repo Repository
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Register(u User) (User, error) {
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u.Password = string(hashed)
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

// SocialSignIn upserts an account for Google/Facebook sign-ins: by email
// when the provider supplies one, by Facebook ID otherwise, so email-less
// Facebook users each keep their own account. Provider token verification
// happens on the client; the API only records the identity. Returns the
// user and whether a new account was created.
func (s *Service) SocialSignIn(u User) (User, bool, error) {
	existing, err := s.findSocialAccount(u)
	if err == nil {
		return s.refreshSocialAccount(existing, u), false, nil
	}
	if err != ErrNotFound {
		return User{}, false, err
	}

	created, err := s.repo.Create(u)
	if err != nil {
		return User{}, false, err
	}
	return created, true, nil
}

func (s *Service) findSocialAccount(u User) (User, error) {
	if u.Email != "" {
		existing, err := s.repo.GetByEmail(u.Email)
		if err == nil {
			return existing, nil
		}
		if err != ErrNotFound {
			return User{}, err
		}
	}
	if u.FacebookID != "" {
		return s.repo.GetByFacebookID(u.FacebookID)
	}
	return User{}, ErrNotFound
}

// refreshSocialAccount backfills provider ids onto an existing account and
// picks up a newer profile image. Failures here never fail the sign-in.
func (s *Service) refreshSocialAccount(existing, incoming User) User {
	update := User{}
	changed := false
	if incoming.ProfileImage != "" && incoming.ProfileImage != existing.ProfileImage {
		update.ProfileImage = incoming.ProfileImage
		changed = true
	}
	if incoming.GoogleID != "" && existing.GoogleID == "" {
		update.GoogleID = incoming.GoogleID
		changed = true
	}
	if incoming.FacebookID != "" && existing.FacebookID == "" {
		update.FacebookID = incoming.FacebookID
		changed = true
	}
	if !changed {
		return existing
	}

	update.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	updated, err := s.repo.Update(existing.ID, update)
	if err != nil {
		return existing
	}
	return updated
}

func (s *Service) UpdateProfile(id int, update User) (User, error) {
	if update.Email != "" {
		if other, err := s.repo.GetByEmail(update.Email); err == nil && other.ID != id {
			return User{}, ErrEmailExists
		}
	}
	if update.Password != "" && !looksLikeBcrypt(update.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		update.Password = string(hashed)
	}
	update.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(id, update)
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
