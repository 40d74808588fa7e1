package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/dejalu/gestion/internal/domain"
)

// The cart travels in an HMAC-signed cookie: it is the explicit session
// object of one clerk's workflow and never touches the store.

const cartCookie = "cart"

func secretKey() []byte {
	k := os.Getenv("SESSION_KEY")
	if k == "" {
		k = "dev-insecure"
	}
	return []byte(k)
}

func readCart(r *http.Request) domain.Cart {
	c, err := r.Cookie(cartCookie)
	if err != nil {
		return domain.Cart{}
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return domain.Cart{}
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return domain.Cart{}
	}
	var cart domain.Cart
	_ = json.Unmarshal(payload, &cart)
	return cart
}

func writeCart(w http.ResponseWriter, cart domain.Cart) {
	b, _ := json.Marshal(cart)
	h := hmac.New(sha256.New, secretKey())
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: cartCookie, Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true})
}
