// Package gatewaytest provides an in-memory spectrum-analysis backend for
// tests. It implements the REST surface consumed by the gateway client with
// the same role and status rules as the real service, and records every
// request so tests can assert on call sequences.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// APIPrefix is the path under which the fake API is mounted.
const APIPrefix = "/api"

// Call is one request received by the server. Path excludes APIPrefix.
type Call struct {
	Method string
	Path   string
}

func (c Call) String() string {
	return c.Method + " " + c.Path
}

type user struct {
	types.User
	password string
}

type analysis struct {
	types.Analysis
	deleted bool
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend. The zero value is not usable; call New.
type Server struct {
	srv *httptest.Server

	mu         sync.Mutex
	users      map[string]*user
	nextUserID uint
	access     map[string]uint
	refresh    map[string]uint
	pigments   []types.Pigment
	analyses   map[string]*analysis
	calls      []Call
	failures   map[string][]failure
}

// DefaultPigments is the catalog served until SetPigments is called.
var DefaultPigments = []types.Pigment{
	{ID: 3, Name: "Malachite", Brief: "Green copper carbonate", Color: "green", ImageKey: "malachite.jpg", CreatedAt: "2024-02-01T08:00:00Z"},
	{ID: 7, Name: "Lead white", Brief: "Basic lead carbonate", Color: "white", CreatedAt: "2024-02-10T12:00:00Z"},
	{ID: 42, Name: "Smalt", Brief: "Blue cobalt glass", Color: "blue", ImageKey: "smalt.jpg", CreatedAt: "2024-03-05T17:30:00Z"},
}

// New starts a fake backend and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		users:    make(map[string]*user),
		access:   make(map[string]uint),
		refresh:  make(map[string]uint),
		pigments: slices.Clone(DefaultPigments),
		analyses: make(map[string]*analysis),
		failures: make(map[string][]failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/users/profile", s.authed(s.handleProfile))
	mux.HandleFunc("PUT /api/users/profile", s.authed(s.handleUpdateProfile))
	mux.HandleFunc("GET /api/pigments", s.handlePigments)
	mux.HandleFunc("GET /api/pigments/{id}", s.handlePigment)
	mux.HandleFunc("POST /api/pigments/{id}/add-to-sa", s.authed(s.handleAddToAnalysis))
	mux.HandleFunc("GET /api/spectrum-analysis", s.authed(s.handleList))
	mux.HandleFunc("GET /api/spectrum-analysis/cart", s.authed(s.handleCart))
	mux.HandleFunc("GET /api/spectrum-analysis/{id}", s.authed(s.handleGet))
	mux.HandleFunc("PUT /api/spectrum-analysis/{id}", s.authed(s.handleUpdate))
	mux.HandleFunc("DELETE /api/spectrum-analysis/{id}", s.authed(s.handleDelete))
	mux.HandleFunc("PUT /api/spectrum-analysis/{id}/form", s.authed(s.handleForm))
	mux.HandleFunc("PUT /api/spectrum-analysis/{id}/complete", s.authed(s.handleComplete))
	mux.HandleFunc("PUT /api/spectrumAnalysis-pigments", s.authed(s.handleUpdateItem))
	mux.HandleFunc("DELETE /api/spectrumAnalysis-pigments", s.authed(s.handleRemoveItem))

	s.srv = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// URL returns the API base URL, suitable for gateway.New.
func (s *Server) URL() string {
	return s.srv.URL + APIPrefix
}

// Close shuts the server down. Subsequent requests fail at the transport.
func (s *Server) Close() {
	s.srv.Close()
}

// AddUser registers a user and returns it.
func (s *Server) AddUser(login, password string, moderator bool) types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(login, password, moderator).User
}

// Token issues an access token for login, as if the user had logged in.
func (s *Server) Token(login string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[login]
	if !ok {
		return ""
	}
	token := "access-" + uuid.NewString()
	s.access[token] = u.ID
	return token
}

// SetPigments replaces the catalog.
func (s *Server) SetPigments(pigments []types.Pigment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pigments = slices.Clone(pigments)
}

// SeedAnalysis stores a for the user login and returns its ID. An empty
// a.ID is generated; a zero CreatedAt is set to now.
func (s *Server) SeedAnalysis(login string, a types.Analysis) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[login]; ok {
		a.CreatorID = u.ID
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.Pigments = slices.Clone(a.Pigments)
	s.analyses[a.ID] = &analysis{Analysis: a}
	return a.ID
}

// Analysis returns a copy of the stored analysis with id.
func (s *Server) Analysis(id string) (types.Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.analyses[id]
	if !ok || a.deleted {
		return types.Analysis{}, false
	}
	out := a.Analysis
	out.Pigments = slices.Clone(a.Pigments)
	return out, true
}

// FailNext makes the next request matching method and path (relative to
// APIPrefix, for example "/spectrum-analysis/cart") answer with status and
// message. An empty message sends a body without one.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, message: message})
}

// Calls returns every request received so far, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// ResetCalls forgets the recorded requests.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// record logs each request and serves injected failures.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, APIPrefix)}

		s.mu.Lock()
		s.calls = append(s.calls, call)
		var f *failure
		if queued := s.failures[call.String()]; len(queued) > 0 {
			f = &queued[0]
			s.failures[call.String()] = queued[1:]
		}
		s.mu.Unlock()

		if f != nil {
			if f.message == "" {
				writeJSON(w, f.status, map[string]string{"status": "fail"})
			} else {
				fail(w, f.status, f.message)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, u *user)

// authed resolves the bearer token to a user or answers 401.
func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			fail(w, http.StatusUnauthorized, "Токен не предоставлен")
			return
		}
		s.mu.Lock()
		u := s.userByID(s.access[token])
		s.mu.Unlock()
		if u == nil {
			fail(w, http.StatusUnauthorized, "Недействительный токен")
			return
		}
		h(w, r, u)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if !decode(w, r, &creds) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[creds.Login]
	if !ok || u.password != creds.Password {
		fail(w, http.StatusUnauthorized, "Неверный логин или пароль")
		return
	}
	writeJSON(w, http.StatusOK, s.issueLocked(u))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if !decode(w, r, &creds) {
		return
	}
	if creds.Login == "" || creds.Password == "" {
		fail(w, http.StatusBadRequest, "Логин и пароль обязательны")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[creds.Login]; exists {
		fail(w, http.StatusConflict, "Пользователь с таким логином уже существует")
		return
	}
	u := s.addUserLocked(creds.Login, creds.Password, creds.IsModerator)
	writeJSON(w, http.StatusCreated, s.issueLocked(u))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.refresh[body.RefreshToken]
	if !ok {
		fail(w, http.StatusUnauthorized, "Недействительный refresh токен")
		return
	}
	delete(s.refresh, body.RefreshToken)
	for token, owner := range s.access {
		if owner == id {
			delete(s.access, token)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Выход выполнен успешно"})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByID(s.refresh[body.RefreshToken])
	if u == nil {
		fail(w, http.StatusUnauthorized, "Недействительный refresh токен")
		return
	}
	delete(s.refresh, body.RefreshToken)
	writeJSON(w, http.StatusOK, s.issueLocked(u))
}

func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request, u *user) {
	writeJSON(w, http.StatusOK, u.User)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, u *user) {
	var patch types.ProfilePatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.Login == "" && patch.Password == "" {
		fail(w, http.StatusBadRequest, "Нет данных для обновления")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Login != "" && patch.Login != u.Login {
		if _, exists := s.users[patch.Login]; exists {
			fail(w, http.StatusConflict, "Пользователь с таким логином уже существует")
			return
		}
		delete(s.users, u.Login)
		u.Login = patch.Login
		s.users[u.Login] = u
	}
	if patch.Password != "" {
		u.password = patch.Password
	}
	writeJSON(w, http.StatusOK, u.User)
}

func (s *Server) handlePigments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := types.Filters{
		Search:    q.Get("search"),
		Color:     q.Get("color"),
		DateRange: types.DateRange{From: q.Get("date_from"), To: q.Get("date_to")},
	}
	if f.DateRange.Validate() != nil {
		fail(w, http.StatusBadRequest, "Неверные параметры фильтрации")
		return
	}
	s.mu.Lock()
	out := types.FilterPigments(s.pigments, f)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"pigments": out, "count": len(out)})
}

func (s *Server) handlePigment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		fail(w, http.StatusBadRequest, "Неверный ID пигмента")
		return
	}
	s.mu.Lock()
	p, ok := s.pigmentLocked(id)
	s.mu.Unlock()
	if !ok {
		fail(w, http.StatusNotFound, "Пигмент не найден")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pigment": p})
}

func (s *Server) handleAddToAnalysis(w http.ResponseWriter, r *http.Request, u *user) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		fail(w, http.StatusBadRequest, "Неверный ID пигмента")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pigmentLocked(id)
	if !ok {
		fail(w, http.StatusNotFound, "Пигмент не найден")
		return
	}
	a := s.draftLocked(u.ID)
	if a == nil {
		a = &analysis{Analysis: types.Analysis{
			ID:        uuid.NewString(),
			Name:      "Новая заявка",
			Status:    types.StatusDraft,
			CreatedAt: time.Now().UTC(),
			CreatorID: u.ID,
		}}
		s.analyses[a.ID] = a
	}
	for _, item := range a.Pigments {
		if item.PigmentID == id {
			fail(w, http.StatusBadRequest, "Пигмент уже добавлен в заявку")
			return
		}
	}
	a.Pigments = append(a.Pigments, types.LineItem{
		PigmentID: p.ID,
		Name:      p.Name,
		Brief:     p.Brief,
		ImageKey:  p.ImageKey,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Пигмент добавлен в заявку",
		"analysis_id": a.ID,
		"items_count": len(a.Pigments),
	})
}

func (s *Server) handleCart(w http.ResponseWriter, _ *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.draftLocked(u.ID)
	if a == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"analysis_id":     nil,
			"items_count":     0,
			"has_active_cart": false,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"analysis_id":     a.ID,
		"items_count":     len(a.Pigments),
		"has_active_cart": true,
	})
}

// handleList shows moderators every submitted analysis (status created by
// default) and regular users their own.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request, u *user) {
	q := r.URL.Query()
	status := types.Status(q.Get("status"))
	if status == "" && u.IsModerator {
		status = types.StatusCreated
	}
	from, fromErr := parseDate(q.Get("date_from"))
	to, toErr := parseDate(q.Get("date_to"))
	limit, limitErr := parseInt(q.Get("limit"), 20)
	offset, offsetErr := parseInt(q.Get("offset"), 0)
	if fromErr != nil || toErr != nil || limitErr != nil || offsetErr != nil {
		fail(w, http.StatusBadRequest, "Неверные параметры фильтрации")
		return
	}

	s.mu.Lock()
	var out []types.Analysis
	for _, a := range s.analyses {
		if a.deleted {
			continue
		}
		if !u.IsModerator && a.CreatorID != u.ID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		if !from.IsZero() && a.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && a.CreatedAt.After(to.Add(24*time.Hour-time.Second)) {
			continue
		}
		item := a.Analysis
		item.Pigments = nil
		out = append(out, item)
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(x, y types.Analysis) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	if out == nil {
		out = []types.Analysis{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": out, "count": len(out)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.visibleLocked(w, r.PathValue("id"), u)
	if !ok {
		return
	}
	out := a.Analysis
	out.Pigments = slices.Clone(a.Pigments)
	if out.Pigments == nil {
		out.Pigments = []types.LineItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"analysis": out})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, u *user) {
	var patch types.AnalysisPatch
	if !decode(w, r, &patch) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ownedDraftLocked(w, r.PathValue("id"), u, "Можно изменять только заявки в статусе черновика")
	if !ok {
		return
	}
	if patch.Name == nil && patch.Spectrum == nil {
		fail(w, http.StatusBadRequest, "Нет данных для обновления")
		return
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Spectrum != nil {
		a.Spectrum = *patch.Spectrum
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Заявка обновлена"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ownedDraftLocked(w, r.PathValue("id"), u, "Можно удалять только заявки в статусе черновика")
	if !ok {
		return
	}
	a.deleted = true
	writeJSON(w, http.StatusOK, map[string]string{"message": "Заявка успешно удалена"})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ownedDraftLocked(w, r.PathValue("id"), u, "Заявка уже сформирована или имеет неверный статус")
	if !ok {
		return
	}
	if a.Spectrum == "" {
		fail(w, http.StatusBadRequest, "Спектр обязателен для формирования")
		return
	}
	now := time.Now().UTC()
	a.Status = types.StatusCreated
	a.FormedAt = &now
	writeJSON(w, http.StatusOK, map[string]any{"message": "Заявка сформирована", "status": a.Status})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request, u *user) {
	var body struct {
		Action types.CompleteAction `json:"action"`
	}
	if !decode(w, r, &body) {
		return
	}
	if !u.IsModerator {
		fail(w, http.StatusForbidden, "Недостаточно прав. Требуется роль модератора")
		return
	}
	if body.Action.Validate() != nil {
		fail(w, http.StatusBadRequest, "Действие должно быть 'complete' или 'reject'")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.visibleLocked(w, r.PathValue("id"), u)
	if !ok {
		return
	}
	if a.Status != types.StatusCreated {
		fail(w, http.StatusBadRequest, "Можно завершать только созданные заявки")
		return
	}
	now := time.Now().UTC()
	a.Status = body.Action.Target()
	a.CompletedAt = &now
	writeJSON(w, http.StatusOK, map[string]any{"status": a.Status, "completed_at": now})
}

type lineItemBody struct {
	AnalysisID string   `json:"spectrum_analysis_id"`
	PigmentID  int64    `json:"pigment_id"`
	Comment    *string  `json:"comment"`
	Percent    *float64 `json:"percent"`
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request, u *user) {
	var body lineItemBody
	if !decode(w, r, &body) {
		return
	}
	if body.Comment == nil && body.Percent == nil {
		fail(w, http.StatusBadRequest, "Нет данных для обновления")
		return
	}
	if body.Percent != nil && (*body.Percent < 0 || *body.Percent > 100) {
		fail(w, http.StatusBadRequest, "Процент не может превышать 100")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ownedDraftLocked(w, body.AnalysisID, u, "Можно изменять пигменты только в черновиках")
	if !ok {
		return
	}
	i := slices.IndexFunc(a.Pigments, func(item types.LineItem) bool { return item.PigmentID == body.PigmentID })
	if i < 0 {
		fail(w, http.StatusNotFound, "Пигмент не найден в заявке")
		return
	}
	if body.Comment != nil {
		a.Pigments[i].Comment = *body.Comment
	}
	if body.Percent != nil {
		a.Pigments[i].Percent = *body.Percent
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pigment_id":           body.PigmentID,
		"spectrum_analysis_id": a.ID,
		"comment":              a.Pigments[i].Comment,
		"percent":              a.Pigments[i].Percent,
	})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request, u *user) {
	var body lineItemBody
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ownedDraftLocked(w, body.AnalysisID, u, "Можно удалять пигменты только из черновиков")
	if !ok {
		return
	}
	i := slices.IndexFunc(a.Pigments, func(item types.LineItem) bool { return item.PigmentID == body.PigmentID })
	if i < 0 {
		fail(w, http.StatusNotFound, "Пигмент не найден в заявке")
		return
	}
	a.Pigments = slices.Delete(a.Pigments, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Пигмент удален из заявки"})
}

func (s *Server) addUserLocked(login, password string, moderator bool) *user {
	s.nextUserID++
	u := &user{
		User: types.User{
			ID:          s.nextUserID,
			Login:       login,
			IsModerator: moderator,
			CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		},
		password: password,
	}
	s.users[login] = u
	return u
}

func (s *Server) issueLocked(u *user) types.AuthResponse {
	access := "access-" + uuid.NewString()
	refresh := "refresh-" + uuid.NewString()
	s.access[access] = u.ID
	s.refresh[refresh] = u.ID
	return types.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    3600,
		User:         u.User,
	}
}

func (s *Server) userByID(id uint) *user {
	if id == 0 {
		return nil
	}
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Server) pigmentLocked(id int64) (types.Pigment, bool) {
	for _, p := range s.pigments {
		if p.ID == id {
			return p, true
		}
	}
	return types.Pigment{}, false
}

func (s *Server) draftLocked(userID uint) *analysis {
	for _, a := range s.analyses {
		if !a.deleted && a.CreatorID == userID && a.Status == types.StatusDraft {
			return a
		}
	}
	return nil
}

// visibleLocked returns the analysis if u may read it, answering 404 or 403
// otherwise.
func (s *Server) visibleLocked(w http.ResponseWriter, id string, u *user) (*analysis, bool) {
	a, ok := s.analyses[id]
	if !ok || a.deleted {
		fail(w, http.StatusNotFound, "Заявка не найдена")
		return nil, false
	}
	if a.CreatorID != u.ID && !u.IsModerator {
		fail(w, http.StatusForbidden, "Недостаточно прав")
		return nil, false
	}
	return a, true
}

// ownedDraftLocked returns the analysis if u owns it and it is a draft.
func (s *Server) ownedDraftLocked(w http.ResponseWriter, id string, u *user, notDraft string) (*analysis, bool) {
	a, ok := s.analyses[id]
	if !ok || a.deleted {
		fail(w, http.StatusNotFound, "Заявка не найдена")
		return nil, false
	}
	if a.CreatorID != u.ID {
		fail(w, http.StatusForbidden, "Недостаточно прав")
		return nil, false
	}
	if a.Status != types.StatusDraft {
		fail(w, http.StatusBadRequest, notDraft)
		return nil, false
	}
	return a, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		fail(w, http.StatusBadRequest, "Неверный формат данных")
		return false
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(types.DateLayout, s)
}

func parseInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "fail", "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
