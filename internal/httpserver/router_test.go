package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staffcore/internal/auth"
	"staffcore/internal/employees"
	"staffcore/internal/logging"
)

const testSecret = "router-test-secret"

type memStore struct {
	nextID    int64
	employees map[int64]employees.Employee
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, employees: map[int64]employees.Employee{}}
}

func (m *memStore) List(ctx context.Context) ([]employees.Employee, error) {
	list := []employees.Employee{}
	for id := int64(1); id < m.nextID; id++ {
		if e, ok := m.employees[id]; ok {
			list = append(list, e)
		}
	}
	return list, nil
}

func (m *memStore) Get(ctx context.Context, id int64) (*employees.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, employees.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) Create(ctx context.Context, e *employees.Employee) error {
	e.ID = m.nextID
	m.nextID++
	m.employees[e.ID] = *e
	return nil
}

func (m *memStore) Update(ctx context.Context, id int64, e *employees.Employee) (*employees.Employee, error) {
	if _, ok := m.employees[id]; !ok {
		return nil, employees.ErrNotFound
	}
	updated := employees.Employee{ID: id, Name: e.Name, Position: e.Position, Salary: e.Salary}
	m.employees[id] = updated
	return &updated, nil
}

func (m *memStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.employees[id]; !ok {
		return employees.ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	creds, err := auth.NewCredentials([]auth.Entry{
		{Username: "admin", Password: "1234", Role: auth.RoleAdmin},
		{Username: "viewer", Password: "1234", Role: auth.RoleViewer},
	})
	if err != nil {
		t.Fatalf("build credentials: %v", err)
	}
	codec := auth.NewCodec(testSecret, time.Hour)
	router := NewRouter(logging.New(), codec, creds, newMemStore())
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func login(t *testing.T, ts *httptest.Server, username, password string) (string, int) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode
	}
	var lr struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return lr.Token, resp.StatusCode
}

func doJSON(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestAdminCanCreateEmployee(t *testing.T) {
	ts := newTestServer(t)

	token, status := login(t, ts, "admin", "1234")
	if status != http.StatusOK || token == "" {
		t.Fatalf("admin login: status=%d token=%q", status, token)
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", token,
		employees.Employee{Name: "Ada", Position: "Engineer", Salary: 95000})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: got %d, want 200", resp.StatusCode)
	}
	var created employees.Employee
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == 0 || created.Name != "Ada" {
		t.Fatalf("created employee not echoed with id: %+v", created)
	}
}

func TestViewerCanReadButNotWrite(t *testing.T) {
	ts := newTestServer(t)

	token, status := login(t, ts, "viewer", "1234")
	if status != http.StatusOK || token == "" {
		t.Fatalf("viewer login: status=%d token=%q", status, token)
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", token,
		employees.Employee{Name: "Ada", Position: "Engineer", Salary: 95000})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("viewer create: got %d, want 403", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/employees", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("viewer list: got %d, want 200", resp.StatusCode)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	token, status := login(t, ts, "admin", "wrongpassword")
	if status != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", status)
	}
	if token != "" {
		t.Fatal("token issued for bad credentials")
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	ts := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/employees"},
		{http.MethodGet, "/api/employees/1"},
		{http.MethodPost, "/api/employees"},
		{http.MethodPut, "/api/employees/1"},
		{http.MethodDelete, "/api/employees/1"},
	}
	for _, rt := range routes {
		resp := doJSON(t, rt.method, ts.URL+rt.path, "", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: got %d, want 401", rt.method, rt.path, resp.StatusCode)
		}
	}
}

func TestProtectedRoutesRejectExpiredToken(t *testing.T) {
	ts := newTestServer(t)

	// Same secret as the server, already past its expiry.
	expired := auth.NewCodec(testSecret, -time.Minute)
	token, err := expired.Issue(auth.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/employees", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expired token: got %d, want 401", resp.StatusCode)
	}
}

func TestUpdateAndDeleteLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token, _ := login(t, ts, "admin", "1234")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", token,
		employees.Employee{Name: "Ada", Position: "Engineer", Salary: 95000})
	var created employees.Employee
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/employees/1", token,
		employees.Employee{Name: "Ada L.", Position: "Lead", Salary: 120000})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: got %d, want 200", resp.StatusCode)
	}
	var updated employees.Employee
	_ = json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.Position != "Lead" {
		t.Fatalf("update not applied: %+v", updated)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/employees/1", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: got %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/employees/1", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete missing: got %d, want 404", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode healthz body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected healthz body: %v", body)
	}
}
