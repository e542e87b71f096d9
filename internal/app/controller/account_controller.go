package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/smartmart-backend/config"
	"github.com/ikkim/smartmart-backend/internal/app/service"
	"github.com/ikkim/smartmart-backend/internal/middleware"
)

type AccountController struct {
	accounts service.AccountService
	cookie   config.SessionConfig
}

func NewAccountController(accounts service.AccountService, cookie config.SessionConfig) *AccountController {
	return &AccountController{
		accounts: accounts,
		cookie:   cookie,
	}
}

func (ctrl *AccountController) setSessionCookie(c *gin.Context, session *service.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookie.CookieName, session.Token, int(ctrl.cookie.TTL.Seconds()), "/", "", ctrl.cookie.Secure, true)
}

func (ctrl *AccountController) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookie.CookieName, "", -1, "/", "", ctrl.cookie.Secure, true)
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// RegisterForm shows the registration form
// GET /register/
func (ctrl *AccountController) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"title": "Register",
		"form":  gin.H{},
	})
}

// Register creates an account with an empty cart and signs it in
// POST /register/
func (ctrl *AccountController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.RegisterInput
	if !bindForm(c, &input) {
		return
	}

	user, session, err := ctrl.accounts.Register(c.Request.Context(), input)
	if err != nil {
		status, info := describeError(err, "user")
		if status == http.StatusBadRequest {
			renderForm(c, status, "register.html", info.Code, info.Message, gin.H{
				"title": "Register",
				"form": gin.H{
					"username": input.Username,
					"email":    input.Email,
				},
			})
			return
		}
		failWith(c, err, "user")
		return
	}

	ctrl.setSessionCookie(c, session)

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	redirect(c, PathHome)
}

// LoginForm shows the login form
// GET /login/
func (ctrl *AccountController) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"next":  safeNext(c.Query("next")),
		"form":  gin.H{},
	})
}

// Login opens a session for valid credentials
// POST /login/
func (ctrl *AccountController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form loginForm
	if !bindForm(c, &form) {
		return
	}
	username := form.Username
	next := safeNext(form.Next)

	user, session, err := ctrl.accounts.Login(c.Request.Context(), username, form.Password)
	if err != nil {
		status, info := describeError(err, "user")
		if status == http.StatusUnauthorized {
			renderForm(c, status, "login.html", info.Code, info.Message, gin.H{
				"title": "Log in",
				"next":  next,
				"form":  gin.H{"username": username},
			})
			return
		}
		failWith(c, err, "user")
		return
	}

	ctrl.setSessionCookie(c, session)

	log.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	if next == "" {
		next = PathHome
	}
	redirect(c, next)
}

// Logout revokes the current session
// GET /logout/
func (ctrl *AccountController) Logout(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	if err := ctrl.accounts.Logout(c.Request.Context(), session); err != nil {
		failWith(c, err, "user")
		return
	}

	ctrl.clearSessionCookie(c)
	redirect(c, PathHome)
}

// safeNext keeps only same-site paths so login cannot redirect off-site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
