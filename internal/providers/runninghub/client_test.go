package runninghub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xAB}, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadRejectsUnsupportedExtensionBeforeNetwork(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	path := writeTempFile(t, "ref.gif", 128)
	_, err := c.Upload(context.Background(), path)
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected upload error, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("server was hit %d times", hits)
	}
}

func TestUploadRejectsOversizedFileBeforeNetwork(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	path := writeTempFile(t, "ref.png", 12*1024*1024)
	_, err := c.Upload(context.Background(), path)
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected upload error, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("server was hit %d times", hits)
	}
}

func TestUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/task/openapi/upload" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("apiKey"); got != "k" {
			t.Fatalf("apiKey = %q", got)
		}
		if got := r.FormValue("fileType"); got != "image" {
			t.Fatalf("fileType = %q", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Fatalf("file part: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]string{"fileName": "api/ref.png", "fileType": "image"},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	asset, err := c.Upload(context.Background(), writeTempFile(t, "ref.png", 256))
	if err != nil {
		t.Fatal(err)
	}
	if asset.FileName != "api/ref.png" {
		t.Fatalf("fileName = %q", asset.FileName)
	}
}

func TestCreateJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/task/openapi/create" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload createPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.WorkflowID != 1985 {
			t.Fatalf("workflowId = %d", payload.WorkflowID)
		}
		if payload.APIKey != "k" {
			t.Fatalf("apiKey = %q", payload.APIKey)
		}
		if len(payload.NodeInfoList) != 2 {
			t.Fatalf("nodeInfoList length = %d", len(payload.NodeInfoList))
		}
		if payload.NodeInfoList[0].NodeID != "6" || payload.NodeInfoList[0].FieldName != "text" {
			t.Fatalf("unexpected first node %+v", payload.NodeInfoList[0])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]string{"taskId": "task-1", "clientId": "client-1"},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	nodes := []NodeAssignment{
		{NodeID: "6", FieldName: "text", FieldValue: "a panda"},
		{NodeID: "3", FieldName: "seed", FieldValue: 42},
	}
	job, err := c.CreateJob(context.Background(), 1985, nodes, "")
	if err != nil {
		t.Fatal(err)
	}
	if job.TaskID != "task-1" || job.ClientID != "client-1" {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.State != StateCreated {
		t.Fatalf("new job state = %v", job.State)
	}
}

func TestNonZeroCodeIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The backend signals failures inside a 200 response.
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 433, "msg": "invalid api key"})
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := c.CreateJob(context.Background(), 1, nil, "")
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected protocol error, got %v", err)
	}
}

func TestPollStatusAndOutputs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload taskPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.TaskID != "task-1" {
			t.Fatalf("taskId = %q", payload.TaskID)
		}
		switch r.URL.Path {
		case "/task/openapi/status":
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": "SUCCESS"})
		case "/task/openapi/outputs":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 0,
				"data": []map[string]string{{"fileUrl": "https://cdn.example/img.png", "fileType": "png"}},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	status, err := c.PollStatus(context.Background(), "task-1", "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if status != "SUCCESS" {
		t.Fatalf("status = %q", status)
	}
	outputs, err := c.FetchOutputs(context.Background(), "task-1", "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 1 || outputs[0].FileURL != "https://cdn.example/img.png" {
		t.Fatalf("outputs = %+v", outputs)
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	data, err := c.Download(context.Background(), srv.URL+"/artifact.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("data = %q", data)
	}
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	if _, err := c.Download(context.Background(), srv.URL+"/missing.png"); !errors.Is(err, ErrDownload) {
		t.Fatalf("expected download error, got %v", err)
	}
}
