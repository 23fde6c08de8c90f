package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"voiced/pkg/types"
)

var httpClient = &http.Client{Timeout: 5 * time.Minute}

func doRequest(method, path string, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, strings.TrimRight(serverURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var e types.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Detail != "" {
			return nil, fmt.Errorf("%s: %s", resp.Status, e.Detail)
		}
		return nil, fmt.Errorf("%s", resp.Status)
	}
	return resp, nil
}

func postJSON(path string, payload any) (*http.Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return doRequest(http.MethodPost, path, "application/json", bytes.NewReader(b))
}

func getJSON(path string, out any) error {
	resp, err := doRequest(http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func uploadFile(path, filePath string, fields map[string]string) (*http.Response, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	for k, v := range fields {
		if v != "" {
			mw.WriteField(k, v)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return doRequest(http.MethodPost, path, mw.FormDataContentType(), &buf)
}
