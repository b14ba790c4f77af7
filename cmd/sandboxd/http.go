package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxRequestBytes = 1 << 20

type session struct {
	dir       string
	timeoutMS int
}

type daemon struct {
	baseDir  string
	mu       sync.Mutex
	sessions map[string]*session
}

type createRequest struct {
	SandboxID string `json:"sandbox_id"`
	Runtime   string `json:"runtime"`
	TimeoutMS int    `json:"timeout_ms"`
}

type writeRequest struct {
	SandboxID string `json:"sandbox_id"`
	Path      string `json:"path"`
	Content   string `json:"content"`
}

type execRequest struct {
	SandboxID string   `json:"sandbox_id"`
	Command   string   `json:"command"`
	Args      []string `json:"args"`
}

func runHTTP(listen, authToken, workDir string) error {
	if strings.TrimSpace(listen) == "" {
		return errors.New("listen address is empty")
	}
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "sandboxd")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return err
	}

	d := &daemon{baseDir: workDir, sessions: make(map[string]*session)}

	server := &http.Server{
		Addr:         listen,
		Handler:      newHTTPHandler(authToken, d),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	fmt.Println("sandboxd listening on", listen)
	return server.ListenAndServe()
}

func newHTTPHandler(authToken string, d *daemon) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sandbox/create", func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, authToken) {
			return
		}
		var req createRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return
		}
		id, err := d.create(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"sandbox_id": id, "status": "ok"})
	})
	mux.HandleFunc("/v1/sandbox/write", func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, authToken) {
			return
		}
		var req writeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return
		}
		if err := d.write(req); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/v1/sandbox/exec", func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, authToken) {
			return
		}
		var req execRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return
		}
		resp, err := d.exec(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, resp)
	})
	mux.HandleFunc("/v1/sandbox/destroy", func(w http.ResponseWriter, r *http.Request) {
		if !allow(w, r, authToken) {
			return
		}
		var req struct {
			SandboxID string `json:"sandbox_id"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return
		}
		if err := d.destroy(req.SandboxID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})
	return mux
}

func (d *daemon) create(req createRequest) (string, error) {
	id := req.SandboxID
	if id == "" {
		id = uuid.New().String()
	}
	dir := filepath.Join(d.baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.sessions[id]; exists {
		return "", fmt.Errorf("sandbox %s already exists", id)
	}
	d.sessions[id] = &session{dir: dir, timeoutMS: req.TimeoutMS}
	return id, nil
}

func (d *daemon) get(id string) (*session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown sandbox %s", id)
	}
	return sess, nil
}

func (d *daemon) write(req writeRequest) error {
	sess, err := d.get(req.SandboxID)
	if err != nil {
		return err
	}
	target := filepath.Join(sess.dir, filepath.Clean(req.Path))
	if !strings.HasPrefix(target, sess.dir+string(os.PathSeparator)) {
		return fmt.Errorf("path escapes sandbox: %s", req.Path)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(req.Content), 0o644)
}

func (d *daemon) exec(ctx context.Context, req execRequest) (map[string]any, error) {
	sess, err := d.get(req.SandboxID)
	if err != nil {
		return nil, err
	}
	if sess.timeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(sess.timeoutMS)*time.Millisecond)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, req.Command, req.Args...)
	cmd.Dir = sess.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, err
		}
	}
	return map[string]any{
		"status":    "ok",
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
		"exit_code": exitCode,
	}, nil
}

func (d *daemon) destroy(id string) error {
	d.mu.Lock()
	sess, ok := d.sessions[id]
	delete(d.sessions, id)
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown sandbox %s", id)
	}
	return os.RemoveAll(sess.dir)
}

func allow(w http.ResponseWriter, r *http.Request, token string) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := authorize(r, token); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func authorize(r *http.Request, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(header, "Bearer ") && strings.TrimSpace(header[7:]) == token {
		return nil
	}
	return errors.New("missing or invalid token")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return err
	}
	if len(data) == 0 {
		http.Error(w, "empty request body", http.StatusBadRequest)
		return errors.New("empty request body")
	}
	if err := json.Unmarshal(data, out); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
