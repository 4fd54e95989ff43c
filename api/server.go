// Package api serves the player over HTTP next to the static client.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/matt-g-everett/algoviz/client"
	"github.com/matt-g-everett/algoviz/playback"
	"github.com/matt-g-everett/algoviz/session"
)

type Api struct {
	session   *session.Session
	speed     playback.SpeedControl
	staticDir string
	logger    *slog.Logger
}

func NewApi(sess *session.Session, speed playback.SpeedControl, staticDir string, logger *slog.Logger) *Api {
	a := new(Api)
	a.session = sess
	a.speed = speed
	a.staticDir = staticDir
	a.logger = logger
	return a
}

type errorBody struct {
	Detail string `json:"detail"`
}

type speedBody struct {
	Value int `json:"value"`
}

// Handler routes the API and falls back to the static client.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/view", a.getView)
	mux.HandleFunc("POST /api/visualize", a.visualize)
	mux.HandleFunc("POST /api/control/speed", a.setSpeed)
	mux.HandleFunc("POST /api/control/{action}", a.control)
	if a.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(a.staticDir)))
	}
	return mux
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	a.logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Api) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Warn("response write failed", "error", err)
	}
}

func (a *Api) writeView(w http.ResponseWriter, status int) {
	a.writeJSON(w, status, newViewBody(a.session.View(), a.speed))
}

func (a *Api) getView(w http.ResponseWriter, r *http.Request) {
	a.writeView(w, http.StatusOK)
}

func (a *Api) visualize(w http.ResponseWriter, r *http.Request) {
	var req client.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid JSON body"})
		return
	}

	err := a.session.Visualize(r.Context(), req.Code, req.InputData)
	switch {
	case errors.Is(err, session.ErrSuperseded):
		a.writeJSON(w, http.StatusConflict, errorBody{Detail: "superseded by a newer request"})
	case err != nil:
		a.writeJSON(w, http.StatusBadGateway, errorBody{Detail: client.Message(err)})
	default:
		a.writeView(w, http.StatusOK)
	}
}

func (a *Api) control(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	if _, err := a.session.Player().Do(action); err != nil {
		a.writeJSON(w, http.StatusNotFound, errorBody{Detail: err.Error()})
		return
	}
	a.writeView(w, http.StatusOK)
}

func (a *Api) setSpeed(w http.ResponseWriter, r *http.Request) {
	var body speedBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid JSON body"})
		return
	}
	a.session.Player().SetSpeed(a.speed.Speed(body.Value))
	a.writeView(w, http.StatusOK)
}
