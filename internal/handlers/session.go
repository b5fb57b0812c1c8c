package handlers

import (
	"encoding/gob"

	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/example/kcx/internal/services"
)

const (
	cartSessionKey = "cart"
	openCartKey    = "open_cart"
)

func init() {
	gob.Register(services.Cart{})
}

// NewSessionStore builds the cookie-backed session store that scopes each
// cart to its browser session.
func NewSessionStore() *session.Store {
	return session.New(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

func getCart(sess *session.Session) services.Cart {
	if v := sess.Get(cartSessionKey); v != nil {
		if cart, ok := v.(services.Cart); ok {
			return cart
		}
	}
	return services.Cart{}
}

func saveCart(sess *session.Session, cart services.Cart) {
	sess.Set(cartSessionKey, cart)
	// Tell the next page render to show the cart open.
	sess.Set(openCartKey, true)
}

func clearCart(sess *session.Session) {
	sess.Set(cartSessionKey, services.Cart{})
}

// consumeOpenCart reads and resets the one-shot "cart should be shown
// open" flag.
func consumeOpenCart(sess *session.Session) bool {
	v := sess.Get(openCartKey)
	sess.Delete(openCartKey)
	open, ok := v.(bool)
	return ok && open
}
