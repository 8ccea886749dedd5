package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/types"
)

const testPage = `<html><head><title>Platform Engineer at Hooli</title></head><body><form>
<label for="first">First name</label><input id="first" name="first_name">
<label for="email">Email</label><input id="email" name="email" type="email">
<label for="why">Why do you want to join us?</label><textarea id="why"></textarea>
</form></body></html>`

const testProfile = `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","skills":["Go"]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOpenPage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.html", testPage)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testPage))
	}))
	defer server.Close()

	tests := []struct {
		name    string
		opts    pageOptions
		wantURL string
	}{
		{"saved file", pageOptions{Source: path, URL: "https://jobs.lever.co/hooli/1"}, "https://jobs.lever.co/hooli/1"},
		{"saved file without url", pageOptions{Source: path}, ""},
		{"static url", pageOptions{Source: server.URL}, server.URL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg, err := openPage(context.Background(), tt.opts)
			require.NoError(t, err)
			defer pg.close()

			assert.Equal(t, tt.wantURL, pg.url)
			el, err := pg.doc.Query("#email")
			require.NoError(t, err)
			assert.NotNil(t, el)

			html, err := pg.render()
			require.NoError(t, err)
			assert.Contains(t, html, `id="email"`)
		})
	}
}

func TestOpenPage_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	_, err := openPage(context.Background(), pageOptions{Source: filepath.Join(t.TempDir(), "missing.html")})
	assert.Error(t, err)

	_, err = openPage(context.Background(), pageOptions{Source: server.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
}

func TestFill_WritesFilledPage(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{Profile: writeFile(t, dir, "profile.json", testProfile)}
	out := filepath.Join(dir, "filled.html")

	err := fill(context.Background(), cfg, fillRequest{
		Page: pageOptions{Source: writeFile(t, dir, "page.html", testPage)},
		Out:  out,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, `value="Ada"`)
	assert.Contains(t, html, `value="ada@example.com"`)
	assert.Contains(t, html, `<textarea id="why"></textarea>`, "no model configured, the question stays empty")
}

func TestFill_Stdout(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{Profile: writeFile(t, dir, "profile.json", testProfile)}

	var stdout bytes.Buffer
	err := fill(context.Background(), cfg, fillRequest{
		Page: pageOptions{Source: writeFile(t, dir, "page.html", testPage)},
		Out:  "-",
	}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "<html>")
	assert.Contains(t, stdout.String(), `value="ada@example.com"`)
}

func TestFill_Errors(t *testing.T) {
	dir := t.TempDir()
	pagePath := writeFile(t, dir, "page.html", testPage)

	tests := []struct {
		name    string
		cfg     config.Config
		source  string
		wantErr string
	}{
		{"no profile", config.Config{}, pagePath, "--profile or --user-id"},
		{"user without database", config.Config{UserID: "9b2f0a34-1c1e-4c55-8d1f-3f4b5c6d7e8f"}, pagePath, "needs a database"},
		{"invalid profile", config.Config{Profile: writeFile(t, dir, "bad.json", `{"email":"nope"}`)}, pagePath, "failed to load profile"},
		{"missing page", config.Config{Profile: writeFile(t, dir, "ok.json", testProfile)}, filepath.Join(dir, "none.html"), "failed to read file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fill(context.Background(), tt.cfg, fillRequest{Page: pageOptions{Source: tt.source}}, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", testProfile)
	withKey := writeFile(t, dir, "with_key.json", `{"profile":"`+profilePath+`","api_key":"file-key","ai_timeout_seconds":5}`)
	withoutKey := writeFile(t, dir, "without_key.json", `{"profile":"`+profilePath+`"}`)
	conflicting := writeFile(t, dir, "conflict.json", `{"profile":"`+profilePath+`","user_id":"9b2f0a34-1c1e-4c55-8d1f-3f4b5c6d7e8f"}`)

	t.Setenv("GEMINI_API_KEY", "env-key")
	defer func() { rootConfigPath = "" }()

	rootConfigPath = withKey
	cfg, err := loadSettings(&cobra.Command{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 5, cfg.AITimeoutSeconds)

	rootConfigPath = withoutKey
	cfg, err = loadSettings(&cobra.Command{}, func(c *config.Config) { c.Model = "gemini-test" })
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "gemini-test", cfg.Model)
	assert.Equal(t, config.DefaultAITimeoutSeconds, cfg.AITimeoutSeconds)

	rootConfigPath = conflicting
	_, err = loadSettings(&cobra.Command{}, nil)
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestScanCommand_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.html", testPage)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"scan", path, "--json", "--url", "https://boards.greenhouse.io/hooli/jobs/1"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())

	var got scanOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Fields, 3)
	assert.True(t, got.Fields[0].TypeIs(types.FirstName))
	assert.True(t, got.Fields[1].TypeIs(types.Email))
	assert.True(t, got.Fields[2].TypeIs(types.CustomQuestion))
	assert.Equal(t, types.JobContext{Title: "Platform Engineer", Company: "Hooli"}, got.Job)
}
