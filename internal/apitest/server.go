// Package apitest is an in-memory stand-in for the remote library service,
// used by end-to-end package tests. It implements the REST surface the
// client consumes (auth, books, borrowings, users and stats) with just
// enough behavior (stock decrement on borrow, one-way return transition,
// role checks on admin routes) to exercise the client honestly. It is test
// tooling only; the real service stays an external collaborator.
//
// To keep the client's envelope normalization honest, collection endpoints
// answer wrapped ({"data": ...}) while single-resource endpoints answer
// bare.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bibliotek/bibliotek/pkg/api"
	"github.com/bibliotek/bibliotek/pkg/session"
)

type account struct {
	user     session.User
	password string
}

// Server is the fixture service. All state lives behind one mutex; the
// fixture favors obviousness over throughput.
type Server struct {
	httpSrv *httptest.Server

	mu         sync.Mutex
	accounts   map[string]*account // by username
	tokens     map[string]int64    // token -> user id
	books      map[int64]*api.Book
	borrowings map[int64]*api.Borrowing
	nextUser   int64
	nextBook   int64
	nextLoan   int64
}

// New starts the fixture. Callers own the Close.
func New() *Server {
	s := &Server{
		accounts:   make(map[string]*account),
		tokens:     make(map[string]int64),
		books:      make(map[int64]*api.Book),
		borrowings: make(map[int64]*api.Borrowing),
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users/me", s.handleMe)
			r.Get("/users", s.handleListUsers)
			r.Get("/users/{id}", s.handleGetUser)

			r.Get("/books", s.handleListBooks)
			r.Get("/books/{id}", s.handleGetBook)

			r.Post("/borrowings/{bookID}", s.handleBorrow)
			r.Put("/borrowings/{bookID}/return", s.handleReturn)
			r.Get("/borrowings/me", s.handleMyBorrowings)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Post("/books", s.handleCreateBook)
				r.Put("/books/{id}", s.handleUpdateBook)
				r.Delete("/books/{id}", s.handleDeleteBook)

				r.Get("/stats/books", s.handleTopBooks)
				r.Get("/stats/users", s.handleTopUsers)
			})
		})
	})

	s.httpSrv = httptest.NewServer(r)
	return s
}

// URL returns the base URL to point an api.Config at.
func (s *Server) URL() string { return s.httpSrv.URL }

// Close shuts the fixture down.
func (s *Server) Close() { s.httpSrv.Close() }

// SeedUser registers an account directly and returns its profile.
func (s *Server) SeedUser(username, password, role string) session.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUser(username, username+"@example.com", password, role)
}

// SeedBook adds a catalog entry directly and returns it.
func (s *Server) SeedBook(title, author, isbn string, stock int) api.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBook++
	b := &api.Book{
		ID:        s.nextBook,
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Stock:     stock,
		CreatedAt: time.Now().UTC(),
	}
	s.books[b.ID] = b
	return *b
}

// RevokeToken invalidates an issued token, simulating server-side expiry.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *Server) addUser(username, email, password, role string) session.User {
	s.nextUser++
	acc := &account{
		user: session.User{
			ID:        s.nextUser,
			Username:  username,
			Email:     email,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		},
		password: password,
	}
	s.accounts[username] = acc
	return acc.user
}

func (s *Server) issueToken(userID int64) string {
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func (s *Server) userByID(id int64) (session.User, bool) {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return session.User{}, false
}

// --- middleware ---

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		s.mu.Lock()
		userID, valid := s.tokens[token]
		s.mu.Unlock()
		if !valid {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		r.Header.Set("X-Fixture-User", strconv.FormatInt(userID, 10))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.currentUser(r)
		if !ok || user.Role != session.RoleAdmin {
			writeError(w, http.StatusForbidden, "administrator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) currentUser(r *http.Request) (session.User, bool) {
	id, err := strconv.ParseInt(r.Header.Get("X-Fixture-User"), 10, 64)
	if err != nil {
		return session.User{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userByID(id)
}

// --- auth handlers ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[req.Username]
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   s.issueToken(acc.user.ID),
		"user":    acc.user,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[req.Username]; exists {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}

	user := s.addUser(req.Username, req.Email, req.Password, "member")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "registration successful",
		"token":   s.issueToken(user.ID),
		"user":    user,
	})
}

// --- user handlers ---

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]session.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	s.mu.Unlock()

	writeWrapped(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	s.mu.Lock()
	user, ok := s.userByID(id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// --- book handlers ---

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	books := make([]api.Book, 0, len(s.books))
	for id := int64(1); id <= s.nextBook; id++ {
		if b, ok := s.books[id]; ok {
			books = append(books, *b)
		}
	}
	s.mu.Unlock()

	writeWrapped(w, http.StatusOK, books)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, ok := s.bookFromPath(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var in api.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if in.Title == "" || in.Author == "" {
		writeError(w, http.StatusBadRequest, "title and author are required")
		return
	}

	s.mu.Lock()
	s.nextBook++
	b := &api.Book{
		ID:        s.nextBook,
		Title:     in.Title,
		Author:    in.Author,
		ISBN:      in.ISBN,
		Stock:     in.Stock,
		CreatedAt: time.Now().UTC(),
	}
	s.books[b.ID] = b
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var in api.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	b.Title = in.Title
	b.Author = in.Author
	b.ISBN = in.ISBN
	b.Stock = in.Stock
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	delete(s.books, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) bookFromPath(w http.ResponseWriter, r *http.Request, param string) (api.Book, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return api.Book{}, false
	}

	s.mu.Lock()
	b, ok := s.books[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "book not found")
		return api.Book{}, false
	}
	return *b, true
}

// --- borrowing handlers ---

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, found := s.books[id]
	if !found {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	if b.Stock <= 0 {
		writeError(w, http.StatusBadRequest, "book out of stock")
		return
	}

	b.Stock--
	s.nextLoan++
	loan := &api.Borrowing{
		ID:         s.nextLoan,
		UserID:     user.ID,
		BookID:     b.ID,
		BorrowedAt: time.Now().UTC(),
	}
	s.borrowings[loan.ID] = loan

	writeJSON(w, http.StatusCreated, loan)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, loan := range s.borrowings {
		if loan.UserID == user.ID && loan.BookID == id && loan.ReturnedAt == nil {
			now := time.Now().UTC()
			loan.ReturnedAt = &now
			if b, found := s.books[id]; found {
				b.Stock++
			}
			writeJSON(w, http.StatusOK, loan)
			return
		}
	}
	writeError(w, http.StatusNotFound, "no active borrowing for this book")
}

func (s *Server) handleMyBorrowings(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	s.mu.Lock()
	loans := make([]api.Borrowing, 0)
	for id := int64(1); id <= s.nextLoan; id++ {
		loan, found := s.borrowings[id]
		if !found || loan.UserID != user.ID {
			continue
		}
		cp := *loan
		if b, hasBook := s.books[loan.BookID]; hasBook {
			bc := *b
			cp.Book = &bc
		}
		loans = append(loans, cp)
	}
	s.mu.Unlock()

	writeWrapped(w, http.StatusOK, loans)
}

// --- stats handlers ---

func (s *Server) handleTopBooks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	counts := make(map[int64]int)
	for _, loan := range s.borrowings {
		counts[loan.BookID]++
	}
	stats := make([]api.BookStat, 0, len(counts))
	for id := int64(1); id <= s.nextBook; id++ {
		n, ok := counts[id]
		if !ok {
			continue
		}
		// A deleted book keeps its historical borrow count but has no
		// title to report; skip it like the real aggregation does.
		if b, found := s.books[id]; found {
			stats = append(stats, api.BookStat{Title: b.Title, Count: n})
		}
	}
	s.mu.Unlock()

	writeWrapped(w, http.StatusOK, stats)
}

func (s *Server) handleTopUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	counts := make(map[int64]int)
	for _, loan := range s.borrowings {
		counts[loan.UserID]++
	}
	stats := make([]api.UserStat, 0, len(counts))
	for id := int64(1); id <= s.nextUser; id++ {
		n, ok := counts[id]
		if !ok {
			continue
		}
		if user, found := s.userByID(id); found {
			stats = append(stats, api.UserStat{Username: user.Username, Count: n})
		}
	}
	s.mu.Unlock()

	writeWrapped(w, http.StatusOK, stats)
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeWrapped(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
