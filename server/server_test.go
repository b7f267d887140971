package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/they4kman/gosweep/v2/game"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger, _ := test.NewNullLogger()
	return New(Config{
		Defaults: game.NewGameConfig().WithDifficulty(game.Difficulties["easy"]),
		Logger:   logger,
	})
}

func do(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

type viewResponse struct {
	ID   string `json:"id"`
	View struct {
		Rows     int    `json:"rows"`
		Cols     int    `json:"cols"`
		Mines    int    `json:"mines"`
		Revealed int    `json:"revealed"`
		Flags    int    `json:"flags"`
		State    string `json:"state"`
		Cells    [][]struct {
			State    string `json:"state"`
			Revealed bool   `json:"revealed"`
			IsMine   bool   `json:"is_mine"`
		} `json:"cells"`
	} `json:"view"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func createGame(t *testing.T, server *Server, body string) viewResponse {
	t.Helper()

	rec := do(t, server, http.MethodPost, "/games", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var created viewResponse
	decode(t, rec, &created)
	return created
}

func TestCreateGame(t *testing.T) {
	server := newTestServer(t)

	created := createGame(t, server, `{"rows": 4, "cols": 5, "mines": 3, "mode": "win7", "seed": 42}`)

	if created.ID == "" {
		t.Error("no game id")
	}
	if created.View.Rows != 4 || created.View.Cols != 5 || created.View.Mines != 3 {
		t.Errorf("view = %+v", created.View)
	}
	if created.View.State != "ongoing" {
		t.Errorf("state = %s", created.View.State)
	}
	for _, row := range created.View.Cells {
		for _, cell := range row {
			if cell.IsMine || cell.State != "hidden" {
				t.Fatalf("fresh game leaks %+v", cell)
			}
		}
	}
	if server.Store().Len() != 1 {
		t.Errorf("store has %d games", server.Store().Len())
	}
}

func TestCreateGameDefaults(t *testing.T) {
	server := newTestServer(t)

	created := createGame(t, server, `{}`)
	if created.View.Rows != 9 || created.View.Cols != 9 || created.View.Mines != 10 {
		t.Errorf("view = %+v", created.View)
	}
}

func TestCreateGameRejectsBadInput(t *testing.T) {
	server := newTestServer(t)

	tests := map[string]struct {
		body   string
		status int
	}{
		"not json":       {body: `{`, status: http.StatusBadRequest},
		"unknown field":  {body: `{"colour": "red"}`, status: http.StatusBadRequest},
		"bad mode":       {body: `{"rows": 3, "cols": 3, "mines": 1, "mode": "hexagonal"}`, status: http.StatusBadRequest},
		"too many mines": {body: `{"rows": 3, "cols": 3, "mines": 8}`, status: http.StatusUnprocessableEntity},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, server, http.MethodPost, "/games", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, expected %d", rec.Code, tt.status)
			}

			var body map[string]string
			decode(t, rec, &body)
			if body["error"] == "" {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestRevealAndGet(t *testing.T) {
	server := newTestServer(t)
	created := createGame(t, server, `{"rows": 9, "cols": 9, "mines": 10, "seed": 3}`)

	rec := do(t, server, http.MethodPost, "/games/"+created.ID+"/reveal", `{"row": 4, "col": 4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("reveal status = %d body = %s", rec.Code, rec.Body.String())
	}

	var revealed struct {
		Result struct {
			Changed []game.Coord `json:"changed"`
			State   string       `json:"state"`
		} `json:"result"`
		View struct {
			Revealed int `json:"revealed"`
		} `json:"view"`
	}
	decode(t, rec, &revealed)

	if revealed.Result.State == "lost" {
		t.Fatal("first reveal lost the game")
	}
	if revealed.Result.State == "ongoing" && revealed.View.Revealed != len(revealed.Result.Changed) {
		t.Errorf("changed %d cells, view reports %d revealed", len(revealed.Result.Changed), revealed.View.Revealed)
	}

	rec = do(t, server, http.MethodGet, "/games/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var fetched viewResponse
	decode(t, rec, &fetched)
	if fetched.ID != created.ID || fetched.View.Revealed != revealed.View.Revealed {
		t.Errorf("fetched = %+v", fetched)
	}
}

func TestFlagAndChord(t *testing.T) {
	server := newTestServer(t)
	created := createGame(t, server, `{"rows": 9, "cols": 9, "mines": 10, "seed": 8}`)
	path := "/games/" + created.ID

	rec := do(t, server, http.MethodPost, path+"/flag", `{"row": 0, "col": 0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("flag status = %d", rec.Code)
	}
	var flagged struct {
		Result struct {
			Flagged bool `json:"flagged"`
			Changed bool `json:"changed"`
		} `json:"result"`
		View struct {
			Flags int `json:"flags"`
		} `json:"view"`
	}
	decode(t, rec, &flagged)
	if !flagged.Result.Flagged || !flagged.Result.Changed || flagged.View.Flags != 1 {
		t.Errorf("flag response = %s", rec.Body.String())
	}

	// Chording a hidden cell changes nothing
	rec = do(t, server, http.MethodPost, path+"/chord", `{"row": 8, "col": 8}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chord status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"changed":null`) {
		t.Errorf("chord response = %s", rec.Body.String())
	}
}

func TestResetGame(t *testing.T) {
	server := newTestServer(t)
	created := createGame(t, server, `{"rows": 9, "cols": 9, "mines": 10, "seed": 5}`)
	path := "/games/" + created.ID

	do(t, server, http.MethodPost, path+"/reveal", `{"row": 0, "col": 0}`)

	rec := do(t, server, http.MethodPost, path+"/reset", `{"rows": 5, "cols": 6, "mines": 4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d body = %s", rec.Code, rec.Body.String())
	}
	var reset viewResponse
	decode(t, rec, &reset)
	if reset.View.Rows != 5 || reset.View.Cols != 6 || reset.View.Mines != 4 || reset.View.Revealed != 0 {
		t.Errorf("reset view = %+v", reset.View)
	}

	rec = do(t, server, http.MethodPost, path+"/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("new round status = %d body = %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &reset)
	if reset.View.Rows != 5 || reset.View.Cols != 6 {
		t.Errorf("new round view = %+v", reset.View)
	}

	rec = do(t, server, http.MethodPost, path+"/reset", `{"rows": 2, "cols": 2, "mines": 3}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad reset status = %d", rec.Code)
	}
}

func TestDeleteGame(t *testing.T) {
	server := newTestServer(t)
	created := createGame(t, server, `{}`)
	path := "/games/" + created.ID

	if rec := do(t, server, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(t, server, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
	if rec := do(t, server, http.MethodDelete, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rec.Code)
	}
}

func TestUnknownGame(t *testing.T) {
	server := newTestServer(t)

	rec := do(t, server, http.MethodPost, "/games/missing/reveal", `{"row": 0, "col": 0}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "game not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	if rec := do(t, server, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}
