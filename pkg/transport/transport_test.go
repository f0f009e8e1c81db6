package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/formic-dev/formic/pkg/path"
)

func TestHTTPPostsJSON(t *testing.T) {
	var got path.Tree
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	submit := HTTP(srv.URL, WithHeader("X-Requested-With", "formic"))
	data := path.Tree{
		"name": "Ada",
		"user": path.Tree{"age": float64(36)},
		"tags": []any{"a", "b"},
	}
	if err := submit(context.Background(), data, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", contentType)
	}
	// JSON round-trips Tree as map[string]any; compare shapes loosely.
	if got["name"] != "Ada" {
		t.Errorf("name = %v, want Ada", got["name"])
	}
	if user, ok := got["user"].(map[string]any); !ok || user["age"] != float64(36) {
		t.Errorf("user = %#v, want age 36", got["user"])
	}
}

func TestHTTPFormEncoding(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got = r.PostForm
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	submit := HTTP(srv.URL, WithEncoding(EncodingForm))
	data := path.Tree{
		"name":       "Ada",
		"subscribed": true,
		"user": path.Tree{
			"addresses": []any{path.Tree{"city": "London"}},
		},
		"note": nil,
	}
	if err := submit(context.Background(), data, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := url.Values{
		"name":                   {"Ada"},
		"subscribed":             {"true"},
		"user.addresses[0].city": {"London"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("form values mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPRejectionIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"errors":{"name":"taken"}}`)
	}))
	defer srv.Close()

	err := HTTP(srv.URL)(context.Background(), path.Tree{"name": "Ada"}, nil)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want *RequestError", err)
	}
	if reqErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", reqErr.Status)
	}
	if !strings.Contains(reqErr.Body, "taken") {
		t.Errorf("Body = %q, want the response payload", reqErr.Body)
	}
}

func TestWebSocketSubmitAndAck(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			var frame submitFrame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			if frame.Type != "submit" {
				t.Errorf("frame type = %q, want submit", frame.Type)
			}
			if name, _ := frame.Data["name"].(string); name == "taken" {
				conn.WriteJSON(ackFrame{OK: false, Status: 409, Error: "name taken"})
				continue
			}
			conn.WriteJSON(ackFrame{OK: true})
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	tr := WebSocket(wsURL)
	defer tr.Close()

	if err := tr.Submit(context.Background(), path.Tree{"name": "Ada"}, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Same connection carries the rejected frame.
	err := tr.Submit(context.Background(), path.Tree{"name": "taken"}, nil)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want *RequestError", err)
	}
	if reqErr.Status != 409 || reqErr.Body != "name taken" {
		t.Errorf("ack = %d %q, want 409 %q", reqErr.Status, reqErr.Body, "name taken")
	}

	// Rejection keeps the connection; a later submission still works.
	if err := tr.Submit(context.Background(), path.Tree{"name": "Grace"}, nil); err != nil {
		t.Fatalf("submit after rejection: %v", err)
	}
}

func TestWebSocketCloseIsIdempotent(t *testing.T) {
	tr := WebSocket("ws://127.0.0.1:0/never-dialed")
	if err := tr.Close(); err != nil {
		t.Fatalf("close before dial: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
