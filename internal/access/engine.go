// Package access decides who may read, create, modify, or delete decks.
//
// The engine is a set of pure decision operations over a request principal
// and a deck reference. Every operation is total: it returns a plain bool
// for any input, folds every lookup failure into deny, and never reaches
// its caller as an error. Callers map false to forbidden and true to
// proceed; nothing else crosses the boundary.
//
// The engine holds no mutable state and caches no verdicts. Ownership and
// status can change between calls, so every decision re-reads the store.
package access

import (
	"context"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
)

// DeckRef is the slice of a deck the engine needs for a decision.
type DeckRef struct {
	ID      int64
	OwnerID int64
	Status  models.DeckStatus
}

// DeckSource resolves a deck reference. A missing or unreadable deck must
// surface as an error, which the engine folds into deny.
type DeckSource interface {
	LookupDeck(ctx context.Context, deckID int64) (DeckRef, error)
}

// UserSource resolves a principal's login name to its numeric account ID.
// A failed resolution folds into "not owner".
type UserSource interface {
	ResolveUserID(ctx context.Context, subject string) (int64, error)
}

// Engine evaluates deck access rules against injected lookup collaborators.
// It is safe for concurrent use.
type Engine struct {
	decks DeckSource
	users UserSource
}

// NewEngine constructs an engine over the given collaborators.
func NewEngine(decks DeckSource, users UserSource) *Engine {
	return &Engine{decks: decks, users: users}
}

// CanRead reports whether the principal may read the deck and its cards.
//
// PUBLIC and PENDING decks are readable by anyone, including anonymous
// principals. PENDING being world-visible while it waits for moderation is
// a deliberate policy choice, not an oversight; keep it. PRIVATE and
// UNLISTED decks are readable only by an admin or the owner. A deck that
// cannot be resolved, or whose status falls outside the closed enum,
// denies for every principal.
func (e *Engine) CanRead(ctx context.Context, deckID int64, p auth.Principal) bool {
	deck, err := e.decks.LookupDeck(ctx, deckID)
	if err != nil {
		return false
	}

	switch deck.Status {
	case models.StatusPublic, models.StatusPending:
		return true
	case models.StatusPrivate, models.StatusUnlisted:
		return e.isAdminOrOwner(ctx, deck, p)
	default:
		return false
	}
}

// CanModify reports whether the principal may update the deck or its cards.
// Writes are owner-gated regardless of status: a PUBLIC deck is still only
// writable by its owner or an admin.
func (e *Engine) CanModify(ctx context.Context, deckID int64, p auth.Principal) bool {
	if !p.IsAuthenticated() {
		return false
	}
	deck, err := e.decks.LookupDeck(ctx, deckID)
	if err != nil {
		return false
	}
	return e.isAdminOrOwner(ctx, deck, p)
}

// CanDelete reports whether the principal may delete the deck. Same rule as
// CanModify.
func (e *Engine) CanDelete(ctx context.Context, deckID int64, p auth.Principal) bool {
	return e.CanModify(ctx, deckID, p)
}

// CanCreate reports whether the principal may create a deck. Any
// authenticated principal qualifies; no resource exists yet, so there is
// no ownership check.
func (e *Engine) CanCreate(p auth.Principal) bool {
	return p.IsAuthenticated()
}

// CanAccessUserDecks reports whether the principal may list the decks owned
// by targetUserID. Admins may list anyone's; everyone else only their own.
// This guards user-scoped queries against one authenticated user
// enumerating another's private deck list.
func (e *Engine) CanAccessUserDecks(ctx context.Context, targetUserID int64, p auth.Principal) bool {
	if !p.IsAuthenticated() {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	ownID, err := e.users.ResolveUserID(ctx, p.Subject)
	if err != nil {
		return false
	}
	return ownID == targetUserID
}

// isAdminOrOwner is the shared predicate behind modify, delete, and
// private/unlisted reads.
func (e *Engine) isAdminOrOwner(ctx context.Context, deck DeckRef, p auth.Principal) bool {
	if p.IsAdmin() && p.IsAuthenticated() {
		return true
	}
	return e.isOwner(ctx, deck, p)
}

// isOwner resolves the principal's numeric identity and compares it to the
// deck's owner. An unauthenticated principal is never an owner, and any
// resolution failure reads as not-owner.
func (e *Engine) isOwner(ctx context.Context, deck DeckRef, p auth.Principal) bool {
	if !p.IsAuthenticated() {
		return false
	}
	ownID, err := e.users.ResolveUserID(ctx, p.Subject)
	if err != nil {
		return false
	}
	return ownID == deck.OwnerID
}
