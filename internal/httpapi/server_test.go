package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"voiced/internal/manager"
	"voiced/pkg/types"
)

// mockService lets each test shape the service behavior per call.
type mockService struct {
	speechFn     func(ctx context.Context, req types.SpeechRequest) (SpeechResult, error)
	transcribeFn func(ctx context.Context, audio []byte, language string) (types.Transcription, error)
	createFn     func(ctx context.Context, agentName, instruct string) (SpeechResult, error)
}

func (m *mockService) Speech(ctx context.Context, req types.SpeechRequest) (SpeechResult, error) {
	if m.speechFn != nil {
		return m.speechFn(ctx, req)
	}
	return SpeechResult{Audio: []byte("RIFFfake"), ContentType: "audio/wav", Agent: "da"}, nil
}

func (m *mockService) Transcribe(ctx context.Context, audio []byte, language string) (types.Transcription, error) {
	if m.transcribeFn != nil {
		return m.transcribeFn(ctx, audio, language)
	}
	return types.Transcription{Text: "hello world", Language: "en", Duration: 1.5}, nil
}

func (m *mockService) CreateVoice(ctx context.Context, agentName, instruct string) (SpeechResult, error) {
	if m.createFn != nil {
		return m.createFn(ctx, agentName, instruct)
	}
	return SpeechResult{Audio: []byte("RIFFnew"), ContentType: "audio/wav", Agent: agentName}, nil
}

func (m *mockService) ListVoices() types.VoicesResponse {
	return types.VoicesResponse{Voices: []types.VoiceInfo{}, DefaultVoice: "da"}
}

func (m *mockService) ReloadVoices(context.Context) (int, error) { return 2, nil }

func (m *mockService) Health() types.HealthResponse {
	return types.HealthResponse{Status: "healthy", VoicesLoaded: 1}
}

func (m *mockService) Ready() bool { return true }

func newTestMux(svc Service, opts Options) http.Handler {
	opts.Logger = zerolog.Nop()
	return NewMux(svc, opts)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp types.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("not an error payload: %v (%s)", err, rr.Body.String())
	}
	return resp.Detail
}

func TestSpeechRejectsEmptyInput(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})
	rr := postJSON(t, h, "/v1/audio/speech", types.SpeechRequest{Input: "   "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if got := errorDetail(t, rr); got != "Input text is empty" {
		t.Fatalf("detail = %q", got)
	}
}

func TestSpeechInputLengthBoundary(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})

	atLimit := strings.Repeat("a", 4096)
	rr := postJSON(t, h, "/v1/audio/speech", types.SpeechRequest{Input: atLimit})
	if rr.Code != http.StatusOK {
		t.Fatalf("4096-char input status = %d, want 200", rr.Code)
	}

	overLimit := strings.Repeat("a", 4097)
	rr = postJSON(t, h, "/v1/audio/speech", types.SpeechRequest{Input: overLimit})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("4097-char input status = %d, want 400", rr.Code)
	}
	if got := errorDetail(t, rr); got != "Input text too long. Maximum 4096 characters." {
		t.Fatalf("detail = %q", got)
	}
}

func TestSpeechResponseHeaders(t *testing.T) {
	svc := &mockService{
		speechFn: func(_ context.Context, req types.SpeechRequest) (SpeechResult, error) {
			return SpeechResult{Audio: []byte("RIFFdata"), ContentType: "audio/wav", Agent: "narrator"}, nil
		},
	}
	h := newTestMux(svc, Options{})
	rr := postJSON(t, h, "/v1/audio/speech", types.SpeechRequest{Input: "hi", Agent: "narrator"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "audio/wav" {
		t.Fatalf("content type = %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != "attachment; filename=speech.wav" {
		t.Fatalf("disposition = %q", got)
	}
	if got := rr.Header().Get("X-Agent-Voice"); got != "narrator" {
		t.Fatalf("agent header = %q", got)
	}
}

func TestSpeechMapsVoiceNotFound(t *testing.T) {
	svc := &mockService{
		speechFn: func(context.Context, types.SpeechRequest) (SpeechResult, error) {
			return SpeechResult{}, manager.ErrVoiceNotFound("ghost")
		},
	}
	h := newTestMux(svc, Options{})
	rr := postJSON(t, h, "/v1/audio/speech", types.SpeechRequest{Input: "hi", Agent: "ghost"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestSpeechRequiresJSONContentType(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/speech", strings.NewReader("input=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rr.Code)
	}
}

func multipartUpload(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if file != nil {
		fw, err := mw.CreateFormFile("file", "clip.wav")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestTranscriptionsDefaultJSON(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})
	body, ct := multipartUpload(t, nil, []byte("RIFFaudio"))
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var resp types.TranscriptionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Text != "hello world" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestTranscriptionsTextFormat(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})
	body, ct := multipartUpload(t, map[string]string{"response_format": "text"}, []byte("RIFFaudio"))
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Body.String(); got != "hello world" {
		t.Fatalf("body = %q", got)
	}
}

func TestTranscriptionsVerboseJSON(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})
	body, ct := multipartUpload(t, map[string]string{"response_format": "verbose_json"}, []byte("RIFFaudio"))
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp types.VerboseTranscriptionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Task != "transcribe" || resp.Language != "en" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	if len(resp.Segments) != 1 {
		t.Fatalf("segments = %d, want 1 synthetic segment", len(resp.Segments))
	}
	seg := resp.Segments[0]
	if seg.Start != 0 || seg.End != 1.5 || seg.Text != "hello world" {
		t.Fatalf("segment = %+v", seg)
	}
}

func TestTranscriptionsRejectsEmptyFile(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})
	body, ct := multipartUpload(t, nil, []byte{})
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if got := errorDetail(t, rr); got != "Empty audio file" {
		t.Fatalf("detail = %q", got)
	}
}

func TestTranscriptionsRejectsUnknownFormat(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})
	body, ct := multipartUpload(t, map[string]string{"response_format": "srt"}, []byte("RIFFaudio"))
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCreateVoiceValidation(t *testing.T) {
	h := newTestMux(&mockService{}, Options{})

	rr := postJSON(t, h, "/v1/voices", types.CreateVoiceRequest{AgentName: "bad name!", Instruct: "x"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid name status = %d, want 400", rr.Code)
	}

	rr = postJSON(t, h, "/v1/voices", types.CreateVoiceRequest{AgentName: "ok_name", Instruct: " "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty instruct status = %d, want 400", rr.Code)
	}

	rr = postJSON(t, h, "/v1/voices", types.CreateVoiceRequest{AgentName: "ok_name", Instruct: "warm voice"})
	if rr.Code != http.StatusOK {
		t.Fatalf("valid create status = %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Agent-Voice"); got != "ok_name" {
		t.Fatalf("agent header = %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != "attachment; filename=ok_name.wav" {
		t.Fatalf("disposition = %q", got)
	}
	if rr.Body.String() != "RIFFnew" {
		t.Fatalf("body = %q, want designed audio", rr.Body.String())
	}
}

func TestCreateVoiceMapsConflict(t *testing.T) {
	svc := &mockService{
		createFn: func(_ context.Context, agentName, _ string) (SpeechResult, error) {
			return SpeechResult{}, manager.ErrVoiceConflict(agentName)
		},
	}
	h := newTestMux(svc, Options{})
	rr := postJSON(t, h, "/v1/voices", types.CreateVoiceRequest{AgentName: "da", Instruct: "x"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
}

func TestAPIKeyEnforcement(t *testing.T) {
	h := newTestMux(&mockService{}, Options{APIKey: "secret"})

	get := func(path string, header, value string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set(header, value)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	if rr := get("/v1/voices", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing key status = %d, want 401", rr.Code)
	}
	if rr := get("/v1/voices", "X-API-Key", "wrong"); rr.Code != http.StatusForbidden {
		t.Fatalf("wrong key status = %d, want 403", rr.Code)
	}
	if rr := get("/v1/voices", "X-API-Key", "secret"); rr.Code != http.StatusOK {
		t.Fatalf("X-API-Key status = %d, want 200", rr.Code)
	}
	if rr := get("/v1/voices", "Authorization", "Bearer secret"); rr.Code != http.StatusOK {
		t.Fatalf("bearer status = %d, want 200", rr.Code)
	}
	// Probes stay open without credentials.
	if rr := get("/health", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rr.Code)
	}
	if rr := get("/", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("root status = %d, want 200", rr.Code)
	}
}

func TestHealthCarriesGatewayFields(t *testing.T) {
	h := newTestMux(&mockService{}, Options{Host: "0.0.0.0", Port: 8001, APIKey: "secret"})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var resp types.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Host != "0.0.0.0" || resp.Port != 8001 || !resp.AuthEnabled {
		t.Fatalf("gateway fields not filled: %+v", resp)
	}
	if resp.Status != "healthy" {
		t.Fatalf("status = %q", resp.Status)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	h := newTestMux(&mockService{}, Options{
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})

	do := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/voices", nil)
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if do("1.2.3.4") != http.StatusOK || do("1.2.3.4") != http.StatusOK {
		t.Fatal("requests under the limit were rejected")
	}
	if got := do("1.2.3.4"); got != http.StatusTooManyRequests {
		t.Fatalf("over-limit status = %d, want 429", got)
	}
	// A different client has its own window.
	if got := do("5.6.7.8"); got != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", got)
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter(2, time.Second)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.allow("c") || !rl.allow("c") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("c") {
		t.Fatal("third request in window should be rejected")
	}
	now = now.Add(time.Second)
	if !rl.allow("c") {
		t.Fatal("request after window reset should pass")
	}
}

func TestRootServiceInfo(t *testing.T) {
	h := newTestMux(&mockService{}, Options{Version: "1.2.3"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var info types.ServiceInfo
	if err := json.Unmarshal(rr.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.Name != "voiced" || info.Version != "1.2.3" {
		t.Fatalf("info = %+v", info)
	}
	if _, ok := info.Endpoints["speech"]; !ok {
		t.Fatal("endpoints listing incomplete")
	}
}
