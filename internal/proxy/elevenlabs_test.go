package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"voiced/pkg/types"
)

func TestSpeechForwardsStyleMapping(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if got := r.Header.Get("xi-api-key"); got != "k" {
			t.Errorf("api key header = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("mp3data"))
	}))
	defer srv.Close()

	p := New("k", "voice123", WithBaseURL(srv.URL))
	res, err := p.Speech(context.Background(), types.SpeechRequest{Input: "hi", Speed: 2.5})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/v1/text-to-speech/voice123" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody["model_id"] != "eleven_turbo_v2_5" {
		t.Fatalf("model_id = %v", gotBody["model_id"])
	}
	vs := gotBody["voice_settings"].(map[string]any)
	if vs["style"].(float64) != 1.0 {
		t.Fatalf("style = %v, want clamped 1.0", vs["style"])
	}
	if res.ContentType != "audio/mpeg" {
		t.Fatalf("content type = %q", res.ContentType)
	}
	if string(res.Audio) != "mp3data" {
		t.Fatalf("audio = %q", res.Audio)
	}
}

func TestSpeechStyleClampsLow(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	p := New("k", "v", WithBaseURL(srv.URL))
	if _, err := p.Speech(context.Background(), types.SpeechRequest{Input: "hi", Speed: 0.25}); err != nil {
		t.Fatal(err)
	}
	vs := gotBody["voice_settings"].(map[string]any)
	if vs["style"].(float64) != 0.0 {
		t.Fatalf("style = %v, want clamped 0.0", vs["style"])
	}
}

func TestSpeechUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	p := New("k", "v", WithBaseURL(srv.URL))
	_, err := p.Speech(context.Background(), types.SpeechRequest{Input: "hi"})
	if err == nil {
		t.Fatal("expected upstream error")
	}
	he, ok := err.(interface{ StatusCode() int })
	if !ok || he.StatusCode() != http.StatusBadGateway {
		t.Fatalf("err = %v, want 502 mapping", err)
	}
}

func TestTranscribeForwardsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("model_id"); got != "scribe_v1" {
			t.Errorf("model_id = %q", got)
		}
		if got := r.FormValue("language_code"); got != "de" {
			t.Errorf("language_code = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hallo welt", "language_code": "de"})
	}))
	defer srv.Close()

	p := New("k", "v", WithBaseURL(srv.URL))
	tr, err := p.Transcribe(context.Background(), []byte("audio"), "de")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Text != "hallo welt" || tr.Language != "de" {
		t.Fatalf("transcription = %+v", tr)
	}
}

func TestVoiceManagementNotSupported(t *testing.T) {
	p := New("k", "v")
	_, err := p.CreateVoice(context.Background(), "a", "b")
	if he, ok := err.(interface{ StatusCode() int }); !ok || he.StatusCode() != http.StatusNotImplemented {
		t.Fatalf("create err = %v, want 501", err)
	}
	if _, err := p.ReloadVoices(context.Background()); err == nil {
		t.Fatal("reload should be unsupported")
	}
}
