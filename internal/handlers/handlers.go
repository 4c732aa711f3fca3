package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"
	"sync"
	"time"

	"coderoom/internal/catalog"
	"coderoom/internal/eval"
	"coderoom/internal/game"
	"coderoom/internal/generator"
	"coderoom/internal/models"
	"coderoom/internal/storage"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// unsafeHrefRe matches href/src attributes with dangerous URL schemes in goldmark output.
var unsafeHrefRe = regexp.MustCompile(`(?i)(href|src)="(?:javascript|vbscript|data):[^"]*"`)

const sessionCookieName = "coderoom_session"

// App holds the application state and dependencies.
type App struct {
	PageTemplates map[string]*template.Template
	FuncMap       template.FuncMap

	Generator *generator.Client
	Evaluator *eval.Evaluator

	markdown func(string) template.HTML

	catMu sync.RWMutex
	cat   *catalog.Catalog

	sessions       sync.Map // map[string]*game.Session
	sessionMutexes sync.Map // map[string]*sync.Mutex
}

// NewApp creates an app with templates compiled at startup and the content
// catalog built from stored persona overrides.
func NewApp(templateFS fs.FS, cfg catalog.Config, gen *generator.Client) (*App, error) {
	md := goldmark.New(
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
	)

	renderMarkdown := func(s string) template.HTML {
		var buf bytes.Buffer
		if err := md.Convert([]byte(s), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(s))
		}
		return template.HTML(unsafeHrefRe.ReplaceAllString(buf.String(), `$1="#"`))
	}
	funcMap := template.FuncMap{"renderMarkdown": renderMarkdown}

	pages := map[string]*template.Template{}
	for _, page := range []string{"select.html", "room.html"} {
		tmpl, err := compilePageTemplate(templateFS, funcMap, page)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", page, err)
		}
		pages[page] = tmpl
	}

	app := &App{
		PageTemplates: pages,
		FuncMap:       funcMap,
		Generator:     gen,
		Evaluator:     eval.New(),
		markdown:      renderMarkdown,
	}
	if err := app.ReloadCatalog(cfg); err != nil {
		return nil, err
	}
	return app, nil
}

// ReloadCatalog rebuilds the content catalog, merging persona overrides from
// storage. Sessions already in the room keep the roster they started with.
func (a *App) ReloadCatalog(cfg catalog.Config) error {
	var personas models.TeacherPersonas
	if err := storage.GetJSON(storage.KeyGameTeachers, &personas); err != nil {
		slog.Warn("failed to load stored personas, using defaults", "error", err)
		personas = nil
	}
	cat, err := catalog.New(cfg, personas)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	a.catMu.Lock()
	a.cat = cat
	a.catMu.Unlock()
	return nil
}

// Catalog returns the current content catalog.
func (a *App) Catalog() *catalog.Catalog {
	a.catMu.RLock()
	defer a.catMu.RUnlock()
	return a.cat
}

// getSession retrieves the session for this request, creating one if needed.
// Must be called from a handler wrapped with WithSessionLock.
func (a *App) getSession(r *http.Request) *game.Session {
	sid := r.Context().Value(sessionIDKey).(string)
	return a.sessionByID(sid)
}

// sessionByID loads or creates the session, restoring persisted progress on
// first sight. Also used by the websocket path, which bypasses WithSessionLock.
func (a *App) sessionByID(sid string) *game.Session {
	if val, ok := a.sessions.Load(sid); ok {
		session := val.(*game.Session)
		session.Touch()
		return session
	}
	session := game.NewSession(a.Catalog())
	var completed []string
	if err := storage.GetJSON(storage.ProgressPrefix+"-"+sid, &completed); err == nil && len(completed) > 0 {
		session.RestoreCompleted(completed)
	}
	a.sessions.Store(sid, session)
	return session
}

func (a *App) getSessionMutex(sessionID string) *sync.Mutex {
	v, _ := a.sessionMutexes.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (a *App) getSessionID(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

type contextKey string

const sessionIDKey contextKey = "sessionID"

// WithSessionLock returns middleware that acquires the session mutex for the
// duration of the request, creating a session ID and cookie if none exists.
func (a *App) WithSessionLock(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := a.getSessionID(r)
		if sid == "" {
			sid = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   30 * 24 * 60 * 60,
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}
		mu := a.getSessionMutex(sid)
		mu.Lock()
		defer mu.Unlock()
		ctx := context.WithValue(r.Context(), sessionIDKey, sid)
		next(w, r.WithContext(ctx))
	}
}

// compilePageTemplate parses layout + a specific page template into one set.
func compilePageTemplate(templateFS fs.FS, funcMap template.FuncMap, page string) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
}

// Index serves the topic-selection page with any stored answers pre-filled.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	topic, err := storage.GetString(storage.KeyStudyTopic)
	if err != nil {
		slog.Warn("failed to load stored topic", "error", err)
	}
	details, err := storage.GetString(storage.KeyUserDetails)
	if err != nil {
		slog.Warn("failed to load stored user details", "error", err)
	}

	data := map[string]any{
		"Topic":       topic,
		"UserDetails": details,
	}

	w.Header().Set("Content-Type", "text/html")
	if err := a.PageTemplates["select.html"].ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("render failed", "template", "select", "error", err)
	}
}

// RoomPage serves the game room and warms the player's session so the
// websocket finds it already in place.
func (a *App) RoomPage(w http.ResponseWriter, r *http.Request) {
	a.getSession(r)
	cat := a.Catalog()
	topic, _ := storage.GetString(storage.KeyStudyTopic)

	data := map[string]any{
		"Config": cat.Config,
		"Player": cat.Player,
		"NPCs":   cat.NPCs,
		"Topic":  topic,
	}

	w.Header().Set("Content-Type", "text/html")
	if err := a.PageTemplates["room.html"].ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("render failed", "template", "room", "error", err)
	}
}

// StartEviction starts a background goroutine that evicts idle sessions,
// persisting their progress first.
func (a *App) StartEviction(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.evictSessions()
			}
		}
	}()
}

func (a *App) evictSessions() {
	now := time.Now()
	a.sessions.Range(func(key, value any) bool {
		session := value.(*game.Session)
		if now.Sub(session.GetLastAccessed()) > 1*time.Hour {
			mu := a.getSessionMutex(key.(string))
			if !mu.TryLock() {
				return true // in use, skip
			}
			a.persistProgress(key.(string), session)
			a.sessions.Delete(key)
			a.sessionMutexes.Delete(key)
			mu.Unlock()
			slog.Info("evicted idle session", "session", key)
		}
		return true
	})
}

func (a *App) persistProgress(sid string, session *game.Session) {
	completed := session.CompletedLessons()
	if len(completed) == 0 {
		return
	}
	if err := storage.SetJSON(storage.ProgressPrefix+"-"+sid, completed); err != nil {
		slog.Error("failed to persist session progress", "session", sid, "error", err)
	}
}
