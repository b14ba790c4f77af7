package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestDaemon(t *testing.T) *daemon {
	t.Helper()
	return &daemon{baseDir: t.TempDir(), sessions: make(map[string]*session)}
}

func doRequest(t *testing.T, handler http.Handler, path string, payload any, token string) []byte {
	t.Helper()
	res := doRawRequest(t, handler, path, payload, token)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d: %s", res.StatusCode, string(data))
	}
	return data
}

func doRawRequest(t *testing.T, handler http.Handler, path string, payload any, token string) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder.Result()
}

func TestSessionLifecycle(t *testing.T) {
	d := newTestDaemon(t)
	handler := newHTTPHandler("", d)

	resp := doRequest(t, handler, "/v1/sandbox/create", createRequest{
		SandboxID: "sb-1",
		Runtime:   "node22",
		TimeoutMS: 30000,
	}, "")
	var created map[string]string
	if err := json.Unmarshal(resp, &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created["sandbox_id"] != "sb-1" || created["status"] != "ok" {
		t.Fatalf("create response = %v", created)
	}

	doRequest(t, handler, "/v1/sandbox/write", writeRequest{
		SandboxID: "sb-1",
		Path:      "hello.txt",
		Content:   "hello",
	}, "")
	written, err := os.ReadFile(filepath.Join(d.baseDir, "sb-1", "hello.txt"))
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if string(written) != "hello" {
		t.Fatalf("file content = %q", written)
	}

	resp = doRequest(t, handler, "/v1/sandbox/exec", execRequest{
		SandboxID: "sb-1",
		Command:   "cat",
		Args:      []string{"hello.txt"},
	}, "")
	var result struct {
		Status   string `json:"status"`
		Stdout   string `json:"stdout"`
		ExitCode int    `json:"exit_code"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		t.Fatalf("decode exec: %v", err)
	}
	if result.Status != "ok" || result.Stdout != "hello" || result.ExitCode != 0 {
		t.Fatalf("exec response = %+v", result)
	}

	doRequest(t, handler, "/v1/sandbox/destroy", map[string]string{"sandbox_id": "sb-1"}, "")
	if _, err := os.Stat(filepath.Join(d.baseDir, "sb-1")); !os.IsNotExist(err) {
		t.Fatalf("session dir should be removed, stat err = %v", err)
	}
}

func TestUnauthorized(t *testing.T) {
	handler := newHTTPHandler("token", newTestDaemon(t))
	res := doRawRequest(t, handler, "/v1/sandbox/create", createRequest{SandboxID: "sb-1"}, "")
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", res.StatusCode)
	}
	res = doRawRequest(t, handler, "/v1/sandbox/create", createRequest{SandboxID: "sb-1"}, "token")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status with token: %d", res.StatusCode)
	}
}

func TestWriteRejectsEscapingPath(t *testing.T) {
	d := newTestDaemon(t)
	handler := newHTTPHandler("", d)

	doRequest(t, handler, "/v1/sandbox/create", createRequest{SandboxID: "sb-1"}, "")
	res := doRawRequest(t, handler, "/v1/sandbox/write", writeRequest{
		SandboxID: "sb-1",
		Path:      "../outside.txt",
		Content:   "nope",
	}, "")
	if res.StatusCode == http.StatusOK {
		t.Fatal("write outside the session dir should fail")
	}
}

func TestExecUnknownSandbox(t *testing.T) {
	handler := newHTTPHandler("", newTestDaemon(t))
	res := doRawRequest(t, handler, "/v1/sandbox/exec", execRequest{
		SandboxID: "missing",
		Command:   "true",
	}, "")
	if res.StatusCode == http.StatusOK {
		t.Fatal("exec against unknown sandbox should fail")
	}
}

func TestExecNonZeroExit(t *testing.T) {
	d := newTestDaemon(t)
	handler := newHTTPHandler("", d)

	doRequest(t, handler, "/v1/sandbox/create", createRequest{SandboxID: "sb-1"}, "")
	resp := doRequest(t, handler, "/v1/sandbox/exec", execRequest{
		SandboxID: "sb-1",
		Command:   "false",
	}, "")
	var result struct {
		Status   string `json:"status"`
		ExitCode int    `json:"exit_code"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		t.Fatalf("decode exec: %v", err)
	}
	if result.Status != "ok" || result.ExitCode != 1 {
		t.Fatalf("exec response = %+v, want exit code 1", result)
	}
}
