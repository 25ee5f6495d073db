// Command cli triggers a run on a running linewatch API and prints the result.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

type outcome struct {
	RunID    string `json:"run_id"`
	Summary  string `json:"summary"`
	Notified bool   `json:"notified"`
	Result   struct {
		Lines []struct {
			Line    string `json:"line"`
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"lines"`
	} `json:"result"`
}

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	method, path := http.MethodPost, "/api/run"
	if len(os.Args) > 1 && os.Args[1] == "check" {
		method, path = http.MethodGet, "/api/check"
	}

	req, err := http.NewRequest(method, api+path, nil)
	if err != nil {
		fmt.Println("Invalid API_BASE:", err)
		os.Exit(1)
	}
	if key := os.Getenv("API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Println("Error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Println("API returned status:", resp.Status)
		os.Exit(1)
	}

	var out outcome
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Println("Bad response:", err)
		os.Exit(1)
	}
	for _, l := range out.Result.Lines {
		fmt.Printf("%s\t%s\t%s\n", l.Line, l.Status, l.Message)
	}
	if out.Notified {
		fmt.Println("Notification sent.")
	}
	fmt.Println(out.Summary)
}
