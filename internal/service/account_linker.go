package service

import (
	"context"
	"errors"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/observability"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
)

// ErrAccountNotLinked is surfaced when creating or linking the external
// account hits a uniqueness violation, typically because the provider
// identity already belongs to a different user.
var ErrAccountNotLinked = errors.New("oauth account could not be linked")

// AccountLinker decides the outcome of an OAuth callback: create a new
// user, attach a new provider binding to an existing user matched by
// email, or reject on conflict.
//
// Matching purely on email is a deliberate trust decision: it assumes the
// provider verified the address. A compromised or lax provider could use
// this to take over the matching local account.
type AccountLinker interface {
	Link(ctx context.Context, identity *OAuthIdentity) (user *domain.User, newUser bool, err error)
}

type accountLinker struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
}

func NewAccountLinker(users repository.UserRepository, accounts repository.AccountRepository) AccountLinker {
	return &accountLinker{users: users, accounts: accounts}
}

func (l *accountLinker) Link(ctx context.Context, identity *OAuthIdentity) (*domain.User, bool, error) {
	user, err := l.users.FindByEmail(identity.Email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return l.createUserWithAccount(ctx, identity)
	case err != nil:
		return nil, false, err
	}

	// Existing user: authorize directly if this provider is already bound,
	// otherwise silently link the new provider by email match.
	if _, err := l.accounts.FindByUserAndProvider(user.ID, identity.Provider); err == nil {
		observability.RecordAuthEvent(ctx, "oauth_link", "existing_binding")
		return user, false, nil
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, false, err
	}

	if err := l.accounts.Create(newAccount(user.ID, identity)); err != nil {
		if errors.Is(err, repository.ErrAccountConflict) {
			observability.RecordAuthEvent(ctx, "oauth_link", "conflict")
			return nil, false, ErrAccountNotLinked
		}
		return nil, false, err
	}
	observability.RecordAuthEvent(ctx, "oauth_link", "linked")
	return user, false, nil
}

func (l *accountLinker) createUserWithAccount(ctx context.Context, identity *OAuthIdentity) (*domain.User, bool, error) {
	user := &domain.User{Email: identity.Email}
	if identity.Name != "" {
		name := identity.Name
		user.Name = &name
	}
	if identity.Image != "" {
		image := identity.Image
		user.Image = &image
	}
	if err := l.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			// Raced with a concurrent sign-up for the same email; retry the
			// linking path against the now-existing user.
			observability.RecordAuthEvent(ctx, "oauth_link", "signup_race")
			return l.Link(ctx, identity)
		}
		return nil, false, err
	}
	if err := l.accounts.Create(newAccount(user.ID, identity)); err != nil {
		if errors.Is(err, repository.ErrAccountConflict) {
			observability.RecordAuthEvent(ctx, "oauth_link", "conflict")
			return nil, false, ErrAccountNotLinked
		}
		return nil, false, err
	}
	observability.RecordAuthEvent(ctx, "oauth_link", "new_user")
	return user, true, nil
}

func newAccount(userID string, identity *OAuthIdentity) *domain.Account {
	account := &domain.Account{
		UserID:            userID,
		Provider:          identity.Provider,
		ProviderAccountID: identity.ProviderAccountID,
		Type:              "oauth",
		ExpiresAt:         identity.ExpiresAt,
	}
	if identity.AccessToken != "" {
		v := identity.AccessToken
		account.AccessToken = &v
	}
	if identity.TokenType != "" {
		v := identity.TokenType
		account.TokenType = &v
	}
	if identity.Scope != "" {
		v := identity.Scope
		account.Scope = &v
	}
	if identity.IDToken != "" {
		v := identity.IDToken
		account.IDToken = &v
	}
	return account
}
