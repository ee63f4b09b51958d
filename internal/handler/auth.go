package handler

import (
    "context"      // provides context with cancellation for DB calls
    "log"          // best-effort failure logging
    "net/http"     // HTTP status codes and primitives
    "strconv"      // formatting user ids into limiter keys
    "strings"      // string manipulation utilities
    "time"         // timeouts and TTL arithmetic

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/helpdesk/internal/config"     // app configuration
    "github.com/iliyamo/helpdesk/internal/mailer"     // verification-code delivery
    "github.com/iliyamo/helpdesk/internal/middleware" // cookie name shared with SessionAuth
    "github.com/iliyamo/helpdesk/internal/model"      // roles
    "github.com/iliyamo/helpdesk/internal/ratelimit"  // login/resend throttling
    "github.com/iliyamo/helpdesk/internal/repository" // DB repositories
    "github.com/iliyamo/helpdesk/internal/utils"      // helper functions (hashing, token issuing)
)

const (
    refreshCookie = "refresh_token"
    localeCookie  = "locale"

    verificationTTL = 15 * time.Minute

    // lockout policy: this many consecutive bad passwords locks the
    // account for lockoutFor.
    maxLoginFailures = 5
    lockoutFor       = 15 * time.Minute
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg     config.Config
	RLCfg   config.RateLimitConfig
	Users   *repository.UserRepo
	Tokens  *repository.TokenRepo
	Limiter ratelimit.Limiter
	Mail    *mailer.Mailer
}

func NewAuthHandler(cfg config.Config, rlCfg config.RateLimitConfig, u *repository.UserRepo, t *repository.TokenRepo, l ratelimit.Limiter, m *mailer.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, RLCfg: rlCfg, Users: u, Tokens: t, Limiter: l, Mail: m}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type verifyReq struct {
	UserID uint64 `json:"user_id"`
	Code   string `json:"code"`
}
type resendReq struct {
	UserID uint64 `json:"user_id"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an unverified client account and mails a 6-digit
// verification code (or logs it when SMTP is unconfigured).  Only the user
// id comes back; the session starts after verification.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	code, err := utils.NewVerificationCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, model.RoleClient,
		h.Cfg.BcryptCost, code, time.Now().UTC().Add(verificationTTL))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	// Delivery is best-effort: registration succeeded regardless.
	if err := h.Mail.SendVerificationCode(req.Email, code); err != nil {
		log.Printf("register: verification mail to %s failed: %v", req.Email, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"user_id": uid})
}

// VerifyEmail checks the submitted code against the stored one.  A match
// before expiry marks the account verified and establishes a session
// immediately, so the user lands in the app without a second login step.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id/code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.EmailVerified {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "already verified"})
	}
	now := time.Now().UTC()
	if u.VerificationCode == nil || *u.VerificationCode != strings.TrimSpace(req.Code) ||
		u.VerificationCodeExpires == nil || now.After(*u.VerificationCodeExpires) {
		// Wrong and expired codes are indistinguishable on purpose.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid code"})
	}

	if err := h.Users.MarkVerified(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify failed"})
	}
	if err := h.establishSession(c, ctx, u.ID, u.Role); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"verified": true, "role": u.Role})
}

// ResendVerification issues a fresh code, at most once per resend window
// per user.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Limiter.Check(ctx, "resend:"+strconv.FormatUint(req.UserID, 10), 1, h.RLCfg.ResendWindow)
	if err != nil {
		log.Printf("resend: limiter error: %v", err)
	} else if !res.Allowed {
		return tooManyRequests(c, res)
	}

	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.EmailVerified {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "already verified"})
	}
	// The in-memory limiter forgets its windows on restart; the stamped
	// sent-at column backs it up so a restart can never shortcut the window.
	if u.VerificationCodeSentAt != nil {
		if reset := u.VerificationCodeSentAt.Add(h.RLCfg.ResendWindow); time.Now().UTC().Before(reset) {
			return tooManyRequests(c, ratelimit.Result{ResetAt: reset})
		}
	}

	code, err := utils.NewVerificationCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.Users.SetVerificationCode(ctx, u.ID, code, time.Now().UTC().Add(verificationTTL)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save code failed"})
	}
	if err := h.Mail.SendVerificationCode(u.Email, code); err != nil {
		log.Printf("resend: verification mail to %s failed: %v", u.Email, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": true})
}

// Login verifies credentials and sets the session and refresh cookies.
// Attempts are throttled per client IP before any credential work happens,
// and repeated failures for one account trigger a temporary lockout.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ip := c.RealIP()
	limitKey := "login:" + ip
	res, err := h.Limiter.Check(ctx, limitKey, h.RLCfg.LoginMax, h.RLCfg.LoginWindow)
	if err != nil {
		// A broken limiter backend must not take logins down with it.
		log.Printf("login: limiter error for %s: %v", ip, err)
	} else if !res.Allowed {
		return tooManyRequests(c, res)
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	now := time.Now().UTC()
	if u.Locked(now) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account temporarily locked"})
	}
	if !u.EmailVerified {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "email not verified"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		if err := h.Users.RecordLoginFailure(ctx, u.ID, maxLoginFailures, lockoutFor); err != nil {
			log.Printf("login: record failure for %d: %v", u.ID, err)
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.Users.ResetLoginFailures(ctx, u.ID); err != nil {
		log.Printf("login: reset failures for %d: %v", u.ID, err)
	}
	if err := h.Limiter.Reset(ctx, limitKey); err != nil {
		log.Printf("login: limiter reset for %s: %v", ip, err)
	}

	if err := h.establishSession(c, ctx, u.ID, u.Role); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{"id": u.ID, "email": u.Email, "role": u.Role},
	})
}

// Refresh validates the refresh cookie by hash, rotates it and issues a
// fresh session cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	hash := utils.HashRefreshRaw(cookie.Value)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash) // rotation: old token dies now

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err := h.establishSession(c, ctx, u.ID, u.Role); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"refreshed": true})
}

// Logout revokes the presented refresh token and clears both cookies.  It
// succeeds even without a valid refresh cookie; logging out twice is fine.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if cookie, err := c.Cookie(refreshCookie); err == nil && cookie.Value != "" {
		if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(cookie.Value)); err != nil {
			log.Printf("logout: revoke failed: %v", err)
		}
	}
	h.clearSessionCookies(c)
	return c.NoContent(http.StatusNoContent)
}

// Session reports login state from the session cookie alone.  It never
// fails: missing, malformed and expired cookies all read as logged out.
func (h *AuthHandler) Session(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, echo.Map{"is_logged_in": false, "role": ""})
	}
	ident, ok := utils.VerifySessionToken(h.Cfg.JWTSecret, cookie.Value)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"is_logged_in": false, "role": ""})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_logged_in": true, "role": ident.Role})
}

// SetLocale stores the UI language preference in a long-lived cookie the
// frontend reads directly; that is why it is not HTTP-only.
func (h *AuthHandler) SetLocale(c echo.Context) error {
	var req struct {
		Locale string `json:"locale"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Locale) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locale required"})
	}
	c.SetCookie(&http.Cookie{
		Name:     localeCookie,
		Value:    strings.TrimSpace(req.Locale),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookies(),
	})
	return c.NoContent(http.StatusNoContent)
}

// Me is a simple protected endpoint echoing the resolved identity.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
		"email":   c.Get("email"),
	})
}

// establishSession issues the session + refresh pair and sets both cookies.
func (h *AuthHandler) establishSession(c echo.Context, ctx context.Context, userID uint64, role string) error {
	access, err := utils.NewSessionToken(h.Cfg.JWTSecret, userID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return err
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    access.Token,
		Path:     "/",
		Expires:  access.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookies(),
	})
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    refresh.Raw,
		Path:     "/",
		Expires:  refresh.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookies(),
	})
	return nil
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	for _, name := range []string{middleware.SessionCookie, refreshCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   h.secureCookies(),
		})
	}
}

func (h *AuthHandler) secureCookies() bool { return h.Cfg.Env == "prod" }
