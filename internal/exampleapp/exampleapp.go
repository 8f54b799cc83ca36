// Package exampleapp is a small in-memory department API used to exercise the
// scenario-testing machinery in this repository's own tests. It deliberately has
// the behaviors that scenarios care about: path parameters, query parameters,
// JSON request/response bodies, auth failures, and mutable state with a reset hook.
package exampleapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Department is the API's resource representation.
type Department struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DepartmentIn is the request body for creating or updating a department.
type DepartmentIn struct {
	Title string `json:"title"`
}

// AuthToken is the only bearer token the API accepts. Any other token gets a 403;
// a missing Authorization header gets a 401.
const AuthToken = "123"

// App holds the API's state. Use Handler to serve it.
type App struct {
	mu          sync.Mutex
	seed        []Department
	departments map[string]Department
	nextID      int
}

// New creates an App whose initial (and post-Reset) state contains the given
// departments.
func New(seed ...Department) *App {
	a := &App{seed: seed}
	_ = a.Reset()
	return a
}

// Reset restores the state the App was created with.
func (a *App) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.departments = make(map[string]Department, len(a.seed))
	for _, d := range a.seed {
		a.departments[d.ID] = d
	}
	a.nextID = len(a.seed)
	return nil
}

// Count returns the current number of departments.
func (a *App) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.departments)
}

// Handler returns the API's HTTP handler.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/departments/", a.serveDepartments)
	return mux
}

func (a *App) serveDepartments(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/departments/")
	if id == "" {
		a.serveCollection(w, r)
	} else {
		a.serveItem(w, r, id)
	}
}

func (a *App) authorize(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		writeError(w, http.StatusUnauthorized, "missing credentials")
		return false
	}
	if auth != "Bearer "+AuthToken {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return false
	}
	return true
}

func (a *App) serveCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.mu.Lock()
		list := make([]Department, 0, len(a.departments))
		for _, d := range a.departments {
			list = append(list, d)
		}
		a.mu.Unlock()
		sortDepartments(list, r.URL.Query()["order_by"])
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var in DepartmentIn
		if !decodeBody(w, r, &in) {
			return
		}
		a.mu.Lock()
		a.nextID++
		d := Department{ID: fmt.Sprintf("d%d", a.nextID), Title: in.Title}
		a.departments[d.ID] = d
		a.mu.Unlock()
		writeJSON(w, http.StatusCreated, d)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *App) serveItem(w http.ResponseWriter, r *http.Request, id string) {
	a.mu.Lock()
	d, found := a.departments[id]
	a.mu.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "object does not exist")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, d)

	case http.MethodPut:
		var in DepartmentIn
		if !decodeBody(w, r, &in) {
			return
		}
		d.Title = in.Title
		a.mu.Lock()
		a.departments[id] = d
		a.mu.Unlock()
		writeJSON(w, http.StatusOK, d)

	case http.MethodDelete:
		a.mu.Lock()
		delete(a.departments, id)
		a.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// sortDepartments applies order_by query values such as "title" or "-title",
// falling back to ID order.
func sortDepartments(list []Department, orderBy []string) {
	key := "id"
	descending := false
	if len(orderBy) > 0 {
		key = orderBy[0]
		if strings.HasPrefix(key, "-") {
			key = key[1:]
			descending = true
		}
	}
	sort.Slice(list, func(i, j int) bool {
		var less bool
		if key == "title" {
			less = list[i].Title < list[j].Title
		} else {
			less = list[i].ID < list[j].ID
		}
		if descending {
			return !less
		}
		return less
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(value); err != nil {
		writeError(w, http.StatusInternalServerError, "cannot encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": %q}`, message)
}
