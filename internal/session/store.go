package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/docquiz/docquiz/internal/models"
)

const (
	cookieName = "docquiz"
	quizKey    = "quiz"
)

func init() {
	// The quiz record travels through securecookie's gob encoding.
	gob.Register(&models.QuizSession{})
}

// Store persists one client's quiz session between requests. Get returns a
// nil session (not an error) when the client has none; Save writes the whole
// record back, which doubles as the modification signal for nested fields.
type Store interface {
	Get(r *http.Request) (*models.QuizSession, error)
	Save(r *http.Request, w http.ResponseWriter, quiz *models.QuizSession) error
	Clear(r *http.Request, w http.ResponseWriter) error
}

// CookieStore keeps the entire quiz record in an authenticated client-side
// cookie, so the server holds no per-client state and sessions expire with
// the cookie.
type CookieStore struct {
	store *sessions.CookieStore
}

// NewCookieStore creates a cookie-backed store signed with secret.
func NewCookieStore(secret []byte) *CookieStore {
	cs := sessions.NewCookieStore(secret)
	// The whole quiz record rides in the cookie, and a long review list can
	// exceed the codec's default 4KB cap. Browsers still bound what fits.
	for _, codec := range cs.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxLength(1 << 15)
		}
	}
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: cs}
}

// Get returns the client's quiz session, or nil when there is none. A stale
// or tampered cookie is treated the same as no session.
func (c *CookieStore) Get(r *http.Request) (*models.QuizSession, error) {
	sess, err := c.store.Get(r, cookieName)
	if err != nil {
		return nil, nil
	}
	quiz, ok := sess.Values[quizKey].(*models.QuizSession)
	if !ok {
		return nil, nil
	}
	return quiz, nil
}

// Save writes the quiz session back to the client.
func (c *CookieStore) Save(r *http.Request, w http.ResponseWriter, quiz *models.QuizSession) error {
	// Get never fails fatally here: a bad cookie just yields a fresh session.
	sess, _ := c.store.Get(r, cookieName)
	sess.Values[quizKey] = quiz
	return sess.Save(r, w)
}

// Clear drops the client's session cookie.
func (c *CookieStore) Clear(r *http.Request, w http.ResponseWriter) error {
	sess, _ := c.store.Get(r, cookieName)
	delete(sess.Values, quizKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
