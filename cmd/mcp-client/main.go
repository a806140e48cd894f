package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	ingest := flag.String("ingest", "", "keywords for a job_ingest call; empty skips ingestion")
	keep := flag.Bool("keep", false, "keep the smoke-test job instead of deleting it")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "jobboard-mcp-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	listTools(ctx, session)

	if *ingest != "" {
		call(ctx, session, "job_ingest", map[string]any{"keywords": *ingest})
	}

	created := call(ctx, session, "create_job", map[string]any{
		"job": map[string]any{
			"title":    "MCP Smoke Test Engineer",
			"company":  "Jobboard",
			"location": "Remote",
			"job_type": "Contract",
			"tags":     []string{"go", "mcp"},
		},
	})

	// a rerun hits the duplicate check; reuse the existing id
	id, _ := created["id"].(string)
	if id == "" {
		id, _ = created["existing_job_id"].(string)
	}

	call(ctx, session, "list_jobs", map[string]any{
		"filter":   map[string]any{"search": "smoke"},
		"sort":     "title_asc",
		"per_page": 5,
	})
	call(ctx, session, "job_facets", map[string]any{"filter": map[string]any{"job_type": "Contract"}})
	call(ctx, session, "job_stats", map[string]any{})

	if id == "" {
		fmt.Println("\nno job id returned, skipping get/update/delete")
		return
	}

	call(ctx, session, "get_job", map[string]any{"id": id})
	call(ctx, session, "update_job", map[string]any{
		"id":      id,
		"changes": map[string]any{"description": "Updated by mcp-client"},
	})

	if !*keep {
		call(ctx, session, "delete_job", map[string]any{"id": id})
	}

	fmt.Println("\nAll calls completed")
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTOOLS")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}

	for _, tool := range res.Tools {
		fmt.Printf("  %-14s %s\n", tool.Name, tool.Description)
	}
}

// call invokes a tool, prints its output and returns the structured content
func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) map[string]any {
	fmt.Printf("\nCALL: %s\n", name)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		log.Printf("%s failed: %v", name, err)
		return nil
	}

	printResult(result)

	structured, _ := result.StructuredContent.(map[string]any)
	if result.IsError {
		fmt.Printf("%s returned a tool error\n", name)
	}
	return structured
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}

	if res.StructuredContent != nil && os.Getenv("MCP_CLIENT_VERBOSE") != "" {
		raw, _ := json.MarshalIndent(res.StructuredContent, "", "  ")
		fmt.Println(string(raw))
	}
}
