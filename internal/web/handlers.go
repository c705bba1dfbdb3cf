package web

import (
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"staffcore/internal/auth"
	"staffcore/internal/employees"
)

// Handler serves the UI pages. Every page action that touches the API
// first pulls the bearer token out of the session; no token means a
// redirect to /Login before any call goes out.
type Handler struct {
	Sessions *SessionStore
	Client   *APIClient
	Logger   *slog.Logger
}

// NewRouter wires the UI routes.
func NewRouter(logger *slog.Logger, sessions *SessionStore, client *APIClient) http.Handler {
	h := &Handler{
		Sessions: sessions,
		Client:   client,
		Logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /Login", h.loginPage)
	mux.HandleFunc("POST /Login", h.login)
	mux.HandleFunc("GET /Logout", h.logout)
	mux.HandleFunc("GET /Employees/Employees", h.employeesPage)
	mux.HandleFunc("POST /Employees/Employees", h.employeesAction)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/Employees/Employees", http.StatusSeeOther)
	})
	return mux
}

type loginData struct {
	Error string
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", loginData{})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.Client.Login(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, ErrUnauthorized) {
			h.Logger.Error("login call", "err", err)
		}
		h.render(w, "login.html", loginData{Error: "Invalid username or password."})
		return
	}
	if err := h.Sessions.Set(w, token); err != nil {
		h.Logger.Error("start session", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/Employees/Employees", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w, r)
	http.Redirect(w, r, "/Login", http.StatusSeeOther)
}

type employeesData struct {
	Employees []employees.Employee
	IsAdmin   bool
	Edit      *employees.Employee
}

func (h *Handler) employeesPage(w http.ResponseWriter, r *http.Request) {
	token, role, ok := h.Sessions.Get(r)
	if !ok {
		http.Redirect(w, r, "/Login", http.StatusSeeOther)
		return
	}

	list, err := h.Client.ListEmployees(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			// Token expired or the API no longer accepts it (e.g. a
			// rotated signing secret). Either way: back through login.
			h.Sessions.Clear(w, r)
			http.Redirect(w, r, "/Login", http.StatusSeeOther)
			return
		}
		h.Logger.Error("list employees", "err", err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	data := employeesData{
		Employees: list,
		// Display flag only. The API re-checks the role on every write.
		IsAdmin: role == auth.RoleAdmin,
	}
	if editStr := r.URL.Query().Get("edit"); editStr != "" && data.IsAdmin {
		if id, err := strconv.ParseInt(editStr, 10, 64); err == nil {
			for i := range list {
				if list[i].ID == id {
					data.Edit = &list[i]
					break
				}
			}
		}
	}
	h.render(w, "employees.html", data)
}

func (h *Handler) employeesAction(w http.ResponseWriter, r *http.Request) {
	token, _, ok := h.Sessions.Get(r)
	if !ok {
		http.Redirect(w, r, "/Login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/Employees/Employees", http.StatusSeeOther)
		return
	}

	var err error
	switch r.PostFormValue("action") {
	case "create":
		e, formErr := employeeFromForm(r)
		if formErr != nil {
			break
		}
		err = h.Client.CreateEmployee(r.Context(), token, e)
	case "edit":
		e, formErr := employeeFromForm(r)
		if formErr != nil {
			break
		}
		id, formErr := formID(r)
		if formErr != nil {
			break
		}
		err = h.Client.UpdateEmployee(r.Context(), token, id, e)
	case "delete":
		id, formErr := formID(r)
		if formErr != nil {
			break
		}
		err = h.Client.DeleteEmployee(r.Context(), token, id)
	}

	if errors.Is(err, ErrUnauthorized) {
		h.Sessions.Clear(w, r)
		http.Redirect(w, r, "/Login", http.StatusSeeOther)
		return
	}
	if err != nil {
		// Forbidden, not found, transport trouble: the change simply
		// does not apply and the list renders as-is.
		h.Logger.Warn("employee action failed", "action", r.PostFormValue("action"), "err", err)
	}
	http.Redirect(w, r, "/Employees/Employees", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.Logger.Error("render template", "template", name, "err", err)
	}
}

func employeeFromForm(r *http.Request) (*employees.Employee, error) {
	salary, err := strconv.ParseFloat(r.PostFormValue("salary"), 64)
	if err != nil {
		return nil, err
	}
	e := &employees.Employee{
		Name:     r.PostFormValue("name"),
		Position: r.PostFormValue("position"),
		Salary:   salary,
	}
	if e.Name == "" || e.Position == "" {
		return nil, errors.New("missing required field")
	}
	return e, nil
}

func formID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PostFormValue("id"), 10, 64)
}
