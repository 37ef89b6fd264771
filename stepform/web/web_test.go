package web

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestWebPlain(t *testing.T) {
	srv := New(4242)

	srv.Start()
	defer srv.Stop()
}

func TestWebWithRoutes(t *testing.T) {
	srv := New(4243)

	router := srv.Router
	router.StrictSlash(true)

	testget := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("(get) hello"))
	}

	testpost := func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := r.PostForm.Get("response")
		w.Write([]byte(fmt.Sprintf("(post) hello: %s", resp)))
	}

	router.HandleFunc("/test", testget).Methods("GET")
	router.HandleFunc("/test", testpost).Methods("POST")

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	if resp, err := http.Get(ts.URL + "/test"); err != nil {
		t.Fatalf("Error testing get request: %v", err.Error())
	} else if b, err := io.ReadAll(resp.Body); err != nil {
		t.Fatalf("Error reading get request body: %v", err.Error())
	} else if string(b) != "(get) hello" {
		t.Fatalf("Got unexpected response from get request: %s", string(b))
	}

	if resp, err := http.PostForm(ts.URL+"/test", url.Values{"response": {"formvalue"}}); err != nil {
		t.Fatalf("Error testing post request: %v", err.Error())
	} else if b, err := io.ReadAll(resp.Body); err != nil {
		t.Fatalf("Error reading post request body: %v", err.Error())
	} else if string(b) != "(post) hello: formvalue" {
		t.Fatalf("Got unexpected response from post request: %s", string(b))
	}
}

func TestUseMiddleware(t *testing.T) {
	srv := New(4244)
	srv.Router.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})
	srv.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "wrapped")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	if rec.Header().Get("X-Test") != "wrapped" {
		t.Fatalf("Middleware not applied: %v", rec.Header())
	}
	if rec.Body.String() != "hello" {
		t.Fatalf("Got unexpected response: %s", rec.Body.String())
	}
}

func TestErrorResponse(t *testing.T) {
	srv := New(4245)

	router := srv.Router
	router.StrictSlash(true)

	expresp := "TESTING:UNAUTHORISED"
	testget := func(w http.ResponseWriter, r *http.Request) {
		srv.ErrorResponse(w, http.StatusUnauthorized, expresp)
	}
	router.HandleFunc("/test", testget).Methods("GET")
	srv.Start()
	defer srv.Stop()

	var resp *http.Response
	var err error
	// the listener comes up asynchronously
	for try := 0; try < 50; try++ {
		if resp, err = http.Get("http://localhost:4245/test"); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Error testing get request: %v", err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Unexpected status code %d", resp.StatusCode)
	}
	if b, err := io.ReadAll(resp.Body); err != nil {
		t.Fatalf("Error reading get request body: %v", err.Error())
	} else if !strings.Contains(string(b), expresp) {
		t.Fatalf("Got unexpected response from get request: %s", string(b))
	}
}
