// Common routes and pages
package stepform

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/G-Node/stepform/stepform/backend"
	"github.com/G-Node/stepform/stepform/db"
	"github.com/G-Node/stepform/stepform/form"
	"github.com/G-Node/stepform/stepform/session"
	"github.com/G-Node/stepform/stepform/widget"
	"github.com/G-Node/stepform/stepform/worker"
	"github.com/G-Node/stepform/templates"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const adminSessionTTL = 7 * 24 * time.Hour

// authedHandler is a handler that requires an authenticated operator.
type authedHandler func(w http.ResponseWriter, r *http.Request, user string)

// reqLoginHandler acts as middleware to check if the operator is logged in.
// Returns a function that matches 'authedHandler()'.
// Without a configured admin token every request is let through.
func (srv *Service) reqLoginHandler(handler authedHandler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if srv.Config.AdminToken == "" {
			handler(w, r, "")
			return
		}
		cookie, err := r.Cookie(srv.Config.CookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		sess, err := srv.db.GetAdminSession(cookie.Value)
		if err != nil || time.Since(sess.Created) > adminSessionTTL {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		handler(w, r, sess.UserName)
	}
}

// logWriter sends access log lines to the current service logger.
type logWriter struct {
	srv *Service
}

func (lw logWriter) Write(p []byte) (int, error) {
	lw.srv.log.Print(string(p))
	return len(p), nil
}

// frameHeaders lets the allowed origins frame the runtime forms and keeps
// every other page out of foreign frames.
func (srv *Service) frameHeaders(next http.Handler) http.Handler {
	ancestors := "*"
	if len(srv.Config.AllowedOrigins) > 0 {
		ancestors = "'self' " + strings.Join(srv.Config.AllowedOrigins, " ")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/forms/") {
			w.Header().Set("Content-Security-Policy", "frame-ancestors "+ancestors)
		} else {
			w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
			w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		}
		next.ServeHTTP(w, r)
	})
}

// setupWebRoutes sets up the routes of the service.
//
// Embed script and runtime forms, login, editor, and submission log pages
func (srv *Service) setupWebRoutes() {
	router := srv.web.Router
	router.StrictSlash(true)

	origins := srv.Config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(handlers.AllowedOrigins(origins), handlers.AllowedMethods([]string{"GET", "OPTIONS"}))
	router.Handle("/embed.js", cors(http.HandlerFunc(srv.renderEmbed))).Methods("GET", "OPTIONS")

	router.HandleFunc("/forms/{tenant}/{type}", srv.mountForm).Methods("GET")
	router.HandleFunc("/forms/{tenant}/{type}", srv.processForm).Methods("POST")

	router.HandleFunc("/login", srv.renderLoginPage).Methods("GET")
	router.HandleFunc("/login", srv.userLoginPost).Methods("POST")
	router.HandleFunc("/logout", srv.userLogout).Methods("GET")

	router.HandleFunc("/", srv.reqLoginHandler(srv.redirectLog)).Methods("GET")
	router.HandleFunc("/log", srv.reqLoginHandler(srv.renderLog)).Methods("GET")
	router.HandleFunc("/log/{id:[0-9]+}", srv.reqLoginHandler(srv.showSubmission)).Methods("GET")

	srv.setupEditorRoutes()

	if srv.Config.AssetsDir != "" {
		router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(http.Dir(srv.Config.AssetsDir))))
	}

	srv.web.Use(srv.frameHeaders)
	srv.web.Use(func(h http.Handler) http.Handler {
		return handlers.LoggingHandler(logWriter{srv}, h)
	})
}

// render executes the layout template with the given data after parsing
// the page templates in order.  The page is only written if it renders
// completely.
func (srv *Service) render(w http.ResponseWriter, status int, data interface{}, pages ...string) {
	tmpl := template.New("layout")
	for _, page := range pages {
		var err error
		if tmpl, err = tmpl.Parse(page); err != nil {
			srv.log.Printf("Failed to parse template: %v", err)
			srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error rendering page")
			return
		}
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		srv.log.Printf("Failed to render page: %v", err)
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error rendering page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (srv *Service) renderEmbed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	io.WriteString(w, templates.Embed)
}

// widgetPage is the data of the pages rendered inside the embed frame.
type widgetPage struct {
	View    widget.View
	Style   themeStyle
	Classes string
	Action  string
	Session string
	Origin  string
	Values  map[string]string
}

func (srv *Service) widgetPage(r *http.Request, wdg *widget.Widget) widgetPage {
	view := wdg.View()
	theme := view.Theme
	if view.Step.Count == 0 {
		theme = form.DefaultTheme()
	}
	return widgetPage{
		View:    view,
		Style:   newThemeStyle(theme),
		Classes: themeClasses(theme),
		Action:  r.URL.Path,
		Origin:  srv.allowedOrigin(r.FormValue("origin")),
	}
}

func (srv *Service) renderWidget(w http.ResponseWriter, status int, content string, page widgetPage) {
	srv.render(w, status, page, templates.WidgetLayout, templates.ThemeCSS, templates.Field, templates.Step, content)
}

// allowedOrigin returns the normalised origin if it may receive submitted
// values, or an empty string.
func (srv *Service) allowedOrigin(origin string) string {
	u, err := url.Parse(origin)
	if origin == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	origin = u.Scheme + "://" + u.Host
	if len(srv.Config.AllowedOrigins) == 0 {
		return origin
	}
	for _, allowed := range srv.Config.AllowedOrigins {
		if strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return origin
		}
	}
	return ""
}

func sessionState(sess *db.FormSession) session.State {
	return session.State{Step: sess.Step, Values: sess.Values, Errors: sess.Errors}
}

func setSessionState(sess *db.FormSession, st session.State) {
	sess.Step = st.Step
	sess.Values = st.Values
	sess.Errors = st.Errors
}

// secretNames returns the names of the password fields of a config.
func secretNames(cfg form.Config) []string {
	names := make([]string, 0)
	for _, f := range cfg.Fields() {
		if f.Type == form.PasswordField {
			names = append(names, f.Name)
		}
	}
	return names
}

func (srv *Service) mountForm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	wdg := widget.New(srv.store, vars["tenant"], vars["type"])
	<-wdg.Mount(r.Context())
	srv.startSession(w, r, wdg)
}

// startSession stores the state of a freshly mounted widget and renders its
// first step.
func (srv *Service) startSession(w http.ResponseWriter, r *http.Request, wdg *widget.Widget) {
	page := srv.widgetPage(r, wdg)
	tenant, formType := wdg.Attributes()
	status, err := wdg.Status()
	if status != widget.Ready {
		code := http.StatusBadGateway
		if errors.Is(err, backend.ErrNotFound) {
			code = http.StatusNotFound
		}
		srv.log.Printf("Failed to load form %s/%s: %v", tenant, formType, err)
		srv.renderWidget(w, code, templates.WidgetFail, page)
		return
	}

	cfg, st, _ := wdg.Snapshot()
	encoded, err := form.Encode(cfg)
	if err != nil {
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error storing form session")
		return
	}
	sess := db.NewFormSession(tenant, formType, string(encoded))
	setSessionState(sess, st)
	if err := srv.db.InsertFormSession(sess); err != nil {
		srv.log.Printf("Error inserting form session: %v", err)
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error storing form session")
		return
	}
	page.Session = sess.ID
	srv.renderWidget(w, http.StatusOK, templates.Form, page)
}

func (srv *Service) processForm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenant, formType := vars["tenant"], vars["type"]
	if err := r.ParseForm(); err != nil {
		srv.web.ErrorResponse(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	sess, err := srv.db.GetFormSession(r.PostForm.Get("session"))
	if err != nil || sess.Tenant != tenant || sess.FormType != formType {
		// expired or foreign session: start over
		wdg := widget.New(srv.store, tenant, formType)
		<-wdg.Mount(r.Context())
		srv.startSession(w, r, wdg)
		return
	}
	cfg, err := form.Decode([]byte(sess.Config))
	if err != nil {
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error reading form session")
		return
	}
	wdg, err := widget.Restore(tenant, formType, cfg, sessionState(sess))
	if err != nil {
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error reading form session")
		return
	}
	var submitted *widget.Submission
	wdg.OnSubmit(func(s widget.Submission) {
		submitted = &s
	})

	for _, f := range wdg.View().Step.Fields {
		if values, ok := r.PostForm[f.Name]; ok && len(values) > 0 {
			wdg.Edit(f.Name, values[0])
		}
	}
	switch r.PostForm.Get("action") {
	case "back":
		wdg.Back()
	case "submit":
		wdg.Submit()
	default:
		wdg.Next()
	}

	page := srv.widgetPage(r, wdg)
	if submitted != nil {
		if err := srv.worker.Enqueue(worker.NewDelivery(tenant, formType, submitted.Values, secretNames(cfg))); err != nil {
			// the stored session still sits on the last step so the visitor
			// can submit again
			srv.log.Printf("Failed to queue submission of %s/%s: %v", tenant, formType, err)
			srv.renderWidget(w, http.StatusServiceUnavailable, templates.WidgetFail, page)
			return
		}
		if err := srv.db.DeleteFormSession(sess.ID); err != nil {
			srv.log.Printf("Error deleting form session: %v", err)
		}
		page.Values = submitted.Values
		srv.renderWidget(w, http.StatusOK, templates.Submitted, page)
		return
	}

	_, st, _ := wdg.Snapshot()
	setSessionState(sess, st)
	if err := srv.db.UpdateFormSession(sess); err != nil {
		srv.log.Printf("Error updating form session: %v", err)
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error storing form session")
		return
	}
	page.Session = sess.ID
	srv.renderWidget(w, http.StatusOK, templates.Form, page)
}

func (srv *Service) renderLoginPage(w http.ResponseWriter, r *http.Request) {
	if srv.Config.AdminToken == "" {
		http.Redirect(w, r, "/log", http.StatusFound)
		return
	}
	srv.render(w, http.StatusOK, nil, templates.Layout, templates.Login)
}

func (srv *Service) userLoginPost(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	username := r.FormValue("username")
	token := r.FormValue("token")
	if srv.Config.AdminToken == "" || username == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(srv.Config.AdminToken)) != 1 {
		srv.web.ErrorResponse(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	sess := db.NewAdminSession(username)
	if err := srv.db.InsertAdminSession(sess); err != nil {
		srv.log.Printf("Error inserting admin session: %v", err)
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error creating session")
		return
	}
	cookie := http.Cookie{
		Name:     srv.Config.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.Created.Add(adminSessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	}
	http.SetCookie(w, &cookie)
	http.Redirect(w, r, "/log", http.StatusFound)
}

func (srv *Service) userLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(srv.Config.CookieName); err == nil {
		srv.db.DeleteAdminSession(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: srv.Config.CookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (srv *Service) redirectLog(w http.ResponseWriter, r *http.Request, user string) {
	http.Redirect(w, r, "/log", http.StatusFound)
}

func (srv *Service) renderLog(w http.ResponseWriter, r *http.Request, user string) {
	tenant := r.URL.Query().Get("tenant")
	var subs []db.Submission
	var err error
	if tenant != "" {
		subs, err = srv.db.TenantSubmissions(tenant)
	} else {
		subs, err = srv.db.AllSubmissions()
	}
	if err != nil {
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error reading submissions from DB")
		return
	}
	data := struct {
		Tenant      string
		Submissions []db.Submission
	}{tenant, subs}
	srv.render(w, http.StatusOK, data, templates.Layout, templates.LogView)
}

func (srv *Service) showSubmission(w http.ResponseWriter, r *http.Request, user string) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		srv.web.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	sub, err := srv.db.GetSubmission(id)
	if err != nil || sub == nil {
		srv.web.ErrorResponse(w, http.StatusNotFound, "No such submission")
		return
	}
	srv.render(w, http.StatusOK, sub, templates.Layout, templates.SubmissionView)
}
