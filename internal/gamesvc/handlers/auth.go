package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/avvvet/animalia/internal/gamesvc/views"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sessionCookie = "jwt"

// InitAuth sets up the signer for admin session cookies. Without a
// SESSION_SECRET a random key is used.
func (h *Handler) InitAuth() {
	key := []byte(h.cfg.SessionSecret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("Failed to generate session key: %v", err)
		}
	}
	h.tokenAuth = jwtauth.New("HS256", key, nil)
}

// issueSession sets a fresh session cookie. Every authenticated request calls
// it again, so the session expires after SessionIdle without activity.
func (h *Handler) issueSession(w http.ResponseWriter, sid string) error {
	expirationTime := time.Now().Add(h.cfg.SessionIdle)

	_, tokenString, err := h.tokenAuth.Encode(map[string]interface{}{
		"admin": true,
		"sid":   sid,
		"exp":   expirationTime.Unix(),
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tokenString,
		Path:     "/",
		Expires:  expirationTime,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// AdminOnly lets through requests carrying a valid admin session and
// redirects the rest to the login page.
func (h *Handler) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil || claims["admin"] != true {
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}
		if exp, ok := claims["exp"].(time.Time); ok && time.Now().After(exp) {
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}

		sid, _ := claims["sid"].(string)
		if err := h.issueSession(w, sid); err != nil {
			log.Errorf("Failed to refresh session: %v", err)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "login", views.Login{Title: "Admin"})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.views.Render(w, http.StatusBadRequest, "login", views.Login{Title: "Admin", Error: "Hibás kérés"})
		return
	}

	password := r.PostFormValue("password")
	if h.cfg.AdminPassword == "" ||
		subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.AdminPassword)) != 1 {
		log.Warnf("Failed admin login from %s", r.RemoteAddr)
		h.views.Render(w, http.StatusUnauthorized, "login", views.Login{Title: "Admin", Error: "Hibás jelszó"})
		return
	}

	sid := uuid.New().String()
	if err := h.issueSession(w, sid); err != nil {
		log.Errorf("Failed to issue session: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	log.Infof("Admin session %s started from %s", sid, r.RemoteAddr)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}
