// Command smoke drives a running server through one full workspace cycle.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) send(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func (c *client) step(title, method, url string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	resp, raw, err := c.send(method, url, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	prettyPrint(out)
	return out
}

func main() {
	baseURL := flag.String("base", "http://localhost:3000/api", "API base URL")
	prompt := flag.String("prompt", "Build a tiny breakout game", "prompt to submit")
	flag.Parse()

	c := &client{baseURL: *baseURL, http: &http.Client{Timeout: 10 * time.Minute}}
	color.Cyan("🚀 Starting AI Forge smoke test against %s\n", *baseURL)

	c.step("1. Health", "GET", "/health", nil)

	created := c.step("2. Create workspace", "POST", "/workspace/v1", nil)
	data, _ := created["data"].(map[string]interface{})
	id, _ := data["id"].(string)
	if id == "" {
		color.Red("No workspace id returned")
		os.Exit(1)
	}
	ws := "/workspace/v1/" + id

	c.step("3. Add text context", "POST", ws+"/context/text", map[string]string{
		"name":    "brief.md",
		"content": "Use a dark theme and keep everything in one file.",
	})

	c.step("4. Submit prompt and wait", "POST", ws+"/turns?wait=true", map[string]string{"prompt": *prompt})
	c.step("5. Stats", "GET", ws+"/stats", nil)

	color.Yellow("\n6. Preview")
	resp, raw, err := c.send("GET", ws+"/preview", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s (%d bytes, CSP %q)", resp.Status, len(raw), resp.Header.Get("Content-Security-Policy"))

	c.step("7. Delete workspace", "DELETE", ws, nil)
	color.Cyan("\n✅ Smoke test finished")
}
