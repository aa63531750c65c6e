package httpx

import (
	"net/http"
	"strings"
	"time"
)

// CookieConfig controls the attributes of cookies written by CookieJar.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// ParseSameSite maps "strict", "lax" or "none" to http.SameSite, defaulting
// to lax.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// CookieJar reads and writes a single HTTP-only cookie.
type CookieJar struct {
	cfg CookieConfig
}

func NewCookieJar(cfg CookieConfig) *CookieJar {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	// Browsers drop SameSite=None cookies that are not Secure.
	if cfg.SameSite == http.SameSiteNoneMode {
		cfg.Secure = true
	}
	return &CookieJar{cfg: cfg}
}

func (j *CookieJar) Name() string { return j.cfg.Name }

// Set writes value into the cookie, expiring after maxAge. A zero maxAge
// makes it a browser-session cookie.
func (j *CookieJar) Set(w http.ResponseWriter, value string, maxAge time.Duration) {
	http.SetCookie(w, j.cookie(value, int(maxAge.Seconds())))
}

// Get returns the cookie value. A missing cookie and an empty one are
// both reported as absent.
func (j *CookieJar) Get(r *http.Request) (string, bool) {
	c, err := r.Cookie(j.cfg.Name)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", false
	}
	return c.Value, true
}

// Clear expires the cookie on the client.
func (j *CookieJar) Clear(w http.ResponseWriter) {
	http.SetCookie(w, j.cookie("", -1))
}

func (j *CookieJar) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     j.cfg.Name,
		Value:    value,
		Path:     j.cfg.Path,
		Domain:   j.cfg.Domain,
		MaxAge:   maxAge,
		Secure:   j.cfg.Secure,
		HttpOnly: true,
		SameSite: j.cfg.SameSite,
	}
}
