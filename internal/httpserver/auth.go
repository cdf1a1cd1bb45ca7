// internal/httpserver/auth.go
//
// Optional accounts.
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me, /stats/me (require auth)
//
// Guests play under an anonymous cookie id. Signing up or logging in claims
// that id's stored sessions and daily results for the account.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/bossdle/internal/daily"
)

var errUsernameTaken = errors.New("username taken")

// signupError is a rejected username or password, safe to show the client.
type signupError string

func (e signupError) Error() string { return string(e) }

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func userFrom(r *http.Request) *authUser {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return me
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes (/auth/*, /stats/me).
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userFrom(r))
	})

	s.r.With(s.requireAuth()).Get("/stats/me", func(w http.ResponseWriter, r *http.Request) {
		u, err := s.findUserByID(r.Context(), userFrom(r).ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "not_found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":          u.ID,
			"gamesPlayed": u.GamesPlayed,
			"wins":        u.Wins,
			"streak":      u.Streak,
			"lastWinDate": u.LastWinDate,
		})
	})
}

// handleSignup creates a new user, signs a JWT, sets auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.createUser(r.Context(), body.Username, body.Password)
	var invalid signupError
	switch {
	case errors.Is(err, errUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	if err := s.signIn(w, r, u); err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates user, sets cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUserByUsername(r.Context(), normalizeUsername(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err := s.signIn(w, r, u); err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearCookie(w, s.cfg.CookieName)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// signIn issues the token cookie and claims the guest's progress.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *userRow) error {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		return err
	}
	s.setCookie(w, s.cfg.CookieName, tok, exp)
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		s.claimAnon(r.Context(), c.Value, u.ID)
	}
	return nil
}

// claimAnon moves a guest's sessions and results to an account. Per mode,
// the session further along (later game-day, then won, then more guesses)
// is kept; for results the account's own row wins on the same day.
func (s *Server) claimAnon(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" || anonID == userID {
		return
	}
	defer s.lockPlayers(anonID, userID)()
	s.adoptGuestSessions(ctx, anonID, userID)
	if err := s.kv.Claim(ctx, anonID, userID); err != nil {
		log.Warn().Err(err).Msg("claim anon state")
	}
	if err := s.results.ClaimPlayer(ctx, anonID, userID); err != nil {
		log.Warn().Err(err).Msg("claim anon results")
	}
	s.dropScreens(anonID, userID)
}

// --------------------------- optional auth ---------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if me, err := s.authenticate(r); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			me, err := s.authenticate(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me)))
		})
	}
}

// authenticate validates the request's token and checks the user still exists.
func (s *Server) authenticate(r *http.Request) (*authUser, error) {
	tokenStr := s.bearerOrCookie(r)
	if tokenStr == "" {
		return nil, errors.New("no token")
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errors.New("invalid token")
	}
	u, err := s.findUserByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return &authUser{ID: u.ID, Username: u.Username}, nil
}

// --------------------------------- players ---------------------------------

const anonCookieName = "bossdle_anon"

// playerID returns the account id when signed in, else the anonymous id.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	s.setCookie(w, anonCookieName, id, time.Now().Add(180*24*time.Hour))
	return id
}

// ------------------------ auth helpers & users -----------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	GamesPlayed  int
	Wins         int
	Streak       int
	LastWinDate  string
}

// createUser validates input, checks uniqueness, hashes password, and inserts a new user.
func (s *Server) createUser(ctx context.Context, username, pw string) (*userRow, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	if taken, err := s.usernameTaken(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, errUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, string(h), now); err != nil {
		// a concurrent signup may have won the unique index
		if taken, _ := s.usernameTaken(ctx, username); taken {
			return nil, errUsernameTaken
		}
		return nil, err
	}
	return &userRow{ID: id, Username: username, PasswordHash: string(h), CreatedAt: mustParse(now)}, nil
}

// usernameTaken reports whether a user exists with username, ignoring case.
func (s *Server) usernameTaken(ctx context.Context, username string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

const userColumns = `id, username, password_hash, created_at, games_played, wins, streak, last_win_date`

func (s *Server) findUserByUsername(ctx context.Context, username string) (*userRow, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username)=lower(?)`, username))
}

func (s *Server) findUserByID(ctx context.Context, id string) (*userRow, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id))
}

func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak, &u.LastWinDate); err != nil {
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return signupError("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return signupError("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return signupError("password must be 8-100 chars")
	}
	return nil
}

// bumpStats counts a daily win for an account. The streak grows when the
// previous win was on the previous game-day; a second win on the same day
// (other mode) leaves it unchanged.
func (s *Server) bumpStats(ctx context.Context, userID, date string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var gp, wins, streak int
	var last string
	if err := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak, last_win_date FROM users WHERE id=?`, userID).
		Scan(&gp, &wins, &streak, &last); err != nil {
		return err
	}
	gp++
	wins++
	switch last {
	case date:
	case daily.PreviousDay(date):
		streak++
	default:
		streak = 1
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=?, last_win_date=? WHERE id=?`,
		gp, wins, streak, date, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	exp := time.Now().Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

func (s *Server) cookie(name, value string) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
	}
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	c := s.cookie(name, value)
	c.Expires = exp
	http.SetCookie(w, c)
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	c := s.cookie(name, "")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}
