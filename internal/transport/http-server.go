package transport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmark-site/bookmark-site/internal/config"
	"github.com/bookmark-site/bookmark-site/internal/db"
	"github.com/bookmark-site/bookmark-site/internal/service"
)

const (
	sessionCookieName = "bookmark_session"
	userIDKey         = "userID"

	listPath = "/bookmarks/bookmarks"

	msgSignupValidation   = "Username must be at least 6 characters and password must be at least 10 characters!"
	msgUserExists         = "User already exists!"
	msgInvalidCredentials = "Invalid credentials!"
	msgNotOwner           = "You can only edit/delete your own bookmarks."
	msgCapacityExceeded   = "You can only add up to 5 bookmarks."
	msgBookmarkMissing    = "Bookmark not found."
	msgBookmarkRequired   = "Title and URL are required."
	msgGenericFailure     = "An error occurred. Please try again."
)

type (
	// Auth is the slice of the auth service the HTTP layer needs.
	Auth interface {
		SignUp(ctx context.Context, username, password string) (string, error)
		LogIn(ctx context.Context, username, password string) (string, error)
		LogOut(ctx context.Context, token string) error
		Resolve(ctx context.Context, token string) (uint64, error)
	}

	Bookmarks interface {
		Add(ctx context.Context, ownerID uint64, title, url string) (*db.Bookmark, error)
		Get(ctx context.Context, requesterID, bookmarkID uint64) (*db.Bookmark, error)
		Edit(ctx context.Context, requesterID, bookmarkID uint64, title, url string) error
		Remove(ctx context.Context, requesterID, bookmarkID uint64) error
		ListPage(ctx context.Context, ownerID uint64, page int) (*service.PagedResult, error)
		Search(ctx context.Context, ownerID uint64, query string) ([]db.Bookmark, error)
	}

	CredentialsReq struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}

	BookmarkReq struct {
		Title string `form:"title" validate:"required"`
		URL   string `form:"url" validate:"required"`
	}

	BookmarkResp struct {
		ID        uint64 `json:"id"`
		Title     string `json:"title"`
		URL       string `json:"url"`
		CreatedAt string `json:"createdAt"`
	}

	SearchResp struct {
		Bookmarks []BookmarkResp `json:"bookmarks"`
	}

	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		auth      Auth
		bookmarks Bookmarks
		logger    *zap.SugaredLogger
	}
)

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, auth Auth, bookmarks Bookmarks, logger *zap.SugaredLogger) *HTTPServer {
	instance := HTTPServer{
		auth:      auth,
		bookmarks: bookmarks,
		logger:    logger,
	}

	e := NewRouter(&instance)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
					e.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return &instance
}

// NewRouter builds the echo instance with all routes and middleware.
func NewRouter(s *HTTPServer) *echo.Echo {
	e := echo.New()

	e.Renderer = NewTemplateRenderer()
	e.Validator = &CustomValidator{validator: validator.New()}

	// HTML forms carry DELETE through a hidden _method field
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/", s.Index)
	e.GET("/signup", s.SignupForm)
	e.POST("/signup", s.Signup)
	e.GET("/login", s.LoginForm)
	e.POST("/login", s.Login)
	e.GET("/logout", s.Logout)
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	bookmarkG := e.Group("/bookmarks", s.SessionMiddleware)
	bookmarkG.GET("/bookmarks", s.BookmarkList)
	bookmarkG.POST("/bookmarks", s.BookmarkCreate)
	bookmarkG.GET("/bookmarks/edit/:id", s.BookmarkEditForm)
	bookmarkG.POST("/bookmarks/edit/:id", s.BookmarkEdit)
	bookmarkG.DELETE("/bookmarks/delete/:id", s.BookmarkDelete)
	bookmarkG.GET("/bookmarks/search", s.BookmarkSearch)

	return e
}

// SessionMiddleware resolves the session cookie to a user id. Requests
// without an active session are redirected to the login page.
func (s *HTTPServer) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ""
		if cookie, err := c.Cookie(sessionCookieName); err == nil {
			token = cookie.Value
		}

		userID, err := s.auth.Resolve(c.Request().Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return c.Redirect(http.StatusFound, "/login")
			}
			return s.renderFailure(c, err)
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

func (s *HTTPServer) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

func (s *HTTPServer) SignupForm(c echo.Context) error {
	return c.Render(http.StatusOK, "signup.html", nil)
}

func (s *HTTPServer) Signup(c echo.Context) error {
	req := CredentialsReq{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := s.auth.SignUp(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrValidation):
		return s.renderError(c, msgSignupValidation, "/signup")
	case errors.Is(err, service.ErrUserExists):
		return s.renderError(c, msgUserExists, "/login")
	case err != nil:
		return s.renderFailure(c, err)
	}

	s.setSessionCookie(c, token)
	return c.Redirect(http.StatusFound, listPath)
}

func (s *HTTPServer) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", nil)
}

func (s *HTTPServer) Login(c echo.Context) error {
	req := CredentialsReq{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := s.auth.LogIn(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return s.renderError(c, msgInvalidCredentials, "/login")
	case err != nil:
		return s.renderFailure(c, err)
	}

	s.setSessionCookie(c, token)
	return c.Redirect(http.StatusFound, listPath)
}

func (s *HTTPServer) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		if err := s.auth.LogOut(c.Request().Context(), cookie.Value); err != nil {
			return s.renderFailure(c, err)
		}
	}
	s.clearSessionCookie(c)
	return c.Redirect(http.StatusFound, "/")
}

func (s *HTTPServer) BookmarkList(c echo.Context) error {
	userID, err := UserIDFromContext(c)
	if err != nil {
		return err
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	result, err := s.bookmarks.ListPage(c.Request().Context(), userID, page)
	if err != nil {
		return s.renderFailure(c, err)
	}

	return c.Render(http.StatusOK, "bookmarks.html", map[string]interface{}{
		"Bookmarks":   result.Bookmarks,
		"CurrentPage": result.Page,
		"TotalPages":  result.TotalPages,
		"PerPage":     result.PageSize,
	})
}

func (s *HTTPServer) BookmarkCreate(c echo.Context) error {
	userID, err := UserIDFromContext(c)
	if err != nil {
		return err
	}

	req := BookmarkReq{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return s.renderError(c, msgBookmarkRequired, listPath)
	}

	_, err = s.bookmarks.Add(c.Request().Context(), userID, req.Title, req.URL)
	switch {
	case errors.Is(err, service.ErrValidation):
		return s.renderError(c, msgBookmarkRequired, listPath)
	case errors.Is(err, service.ErrCapacityExceeded):
		return s.renderError(c, msgCapacityExceeded, listPath)
	case err != nil:
		return s.renderFailure(c, err)
	}

	return c.Redirect(http.StatusFound, listPath)
}

func (s *HTTPServer) BookmarkEditForm(c echo.Context) error {
	userID, err := UserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	bookmark, err := s.bookmarks.Get(c.Request().Context(), userID, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return s.renderError(c, msgBookmarkMissing, listPath)
	case errors.Is(err, service.ErrNotOwner):
		return s.renderError(c, msgNotOwner, listPath)
	case err != nil:
		return s.renderFailure(c, err)
	}

	return c.Render(http.StatusOK, "edit-bookmark.html", map[string]interface{}{
		"Bookmark": bookmark,
	})
}

func (s *HTTPServer) BookmarkEdit(c echo.Context) error {
	userID, err := UserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	req := BookmarkReq{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return s.renderError(c, msgBookmarkRequired, listPath)
	}

	err = s.bookmarks.Edit(c.Request().Context(), userID, id, req.Title, req.URL)
	switch {
	case errors.Is(err, service.ErrValidation):
		return s.renderError(c, msgBookmarkRequired, listPath)
	case errors.Is(err, service.ErrNotFound):
		return s.renderError(c, msgBookmarkMissing, listPath)
	case errors.Is(err, service.ErrNotOwner):
		return s.renderError(c, msgNotOwner, listPath)
	case err != nil:
		return s.renderFailure(c, err)
	}

	return c.Redirect(http.StatusFound, listPath)
}

func (s *HTTPServer) BookmarkDelete(c echo.Context) error {
	userID, err := UserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	err = s.bookmarks.Remove(c.Request().Context(), userID, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return s.renderError(c, msgBookmarkMissing, listPath)
	case errors.Is(err, service.ErrNotOwner):
		return s.renderError(c, msgNotOwner, listPath)
	case err != nil:
		return s.renderFailure(c, err)
	}

	return c.Redirect(http.StatusFound, listPath)
}

func (s *HTTPServer) BookmarkSearch(c echo.Context) error {
	userID, err := UserIDFromContext(c)
	if err != nil {
		return err
	}

	bookmarks, err := s.bookmarks.Search(c.Request().Context(), userID, c.QueryParam("q"))
	if err != nil {
		s.logger.Errorw("search bookmarks", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": msgGenericFailure,
		})
	}

	resp := SearchResp{Bookmarks: make([]BookmarkResp, len(bookmarks))}
	for i := range bookmarks {
		resp.Bookmarks[i] = BookmarkResp{
			ID:        bookmarks[i].ID,
			Title:     bookmarks[i].Title,
			URL:       bookmarks[i].URL,
			CreatedAt: bookmarks[i].CreatedAt.Format(time.RFC3339),
		}
	}
	return c.JSON(http.StatusOK, resp)
}

////////

func (s *HTTPServer) renderError(c echo.Context, message, backURL string) error {
	return c.Render(http.StatusOK, "error.html", map[string]interface{}{
		"Message": message,
		"BackURL": backURL,
	})
}

func (s *HTTPServer) renderFailure(c echo.Context, err error) error {
	s.logger.Errorw("store failure", "path", c.Path(), "error", err)
	return c.Render(http.StatusInternalServerError, "error.html", map[string]interface{}{
		"Message": msgGenericFailure,
	})
}

func (s *HTTPServer) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}

func (s *HTTPServer) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func UserIDFromContext(c echo.Context) (uint64, error) {
	userID, ok := c.Get(userIDKey).(uint64)
	if !ok {
		return 0, errors.New("no user id found in context")
	}
	return userID, nil
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return value, nil
}

func GetAndParseParam(c echo.Context, name string) (uint64, error) {
	v, e := GetParam(c, name)
	if e != nil {
		return 0, e
	}
	vv, e := strconv.ParseUint(v, 10, 64)
	if e != nil {
		return 0, e
	}
	return vv, nil
}
