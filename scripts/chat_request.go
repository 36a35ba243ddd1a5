// Command chat_request posts one query to a running agent service and prints
// the JSON result. Handy for poking a local instance:
//
//	go run ./scripts -url http://localhost:8000/chat -query "Fly to Paris"
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
)

func main() {
	url := flag.String("url", "http://localhost:8000/chat", "chat endpoint URL")
	query := flag.String("query", "", "natural-language query to send")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "chat_request: -query is required")
		os.Exit(2)
	}

	body, err := json.Marshal(map[string]any{"query": *query})
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat_request: encode body: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Post(*url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat_request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat_request: read response: %v\n", err)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		fmt.Println(string(payload))
		return
	}
	fmt.Printf("HTTP %d\n%s\n", resp.StatusCode, pretty.String())
}
