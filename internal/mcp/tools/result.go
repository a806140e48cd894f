package tools

import (
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobboard/internal/domain"
)

// ToolError is the structured payload of a failed tool call
type ToolError struct {
	Error         string   `json:"error"`
	Kind          string   `json:"kind"`
	Details       []string `json:"details,omitempty"`
	ExistingJobID string   `json:"existing_job_id,omitempty"`
}

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

// domainErrorResult turns a domain error into an IsError result the model can
// act on. ok is false for anything else; those surface as protocol errors.
func domainErrorResult(err error) (*sdkmcp.CallToolResult, ToolError, bool) {
	var payload ToolError

	if verr, ok := domain.IsValidation(err); ok {
		payload = ToolError{Error: "validation failed", Kind: "validation", Details: verr.Messages}
	} else if conflict, ok := domain.IsConflict(err); ok {
		payload = ToolError{Error: "job already exists", Kind: "conflict", ExistingJobID: conflict.ExistingID.String()}
	} else if errors.Is(err, domain.ErrNotFound) {
		payload = ToolError{Error: "job not found", Kind: "not_found"}
	} else {
		return nil, ToolError{}, false
	}

	msg := payload.Error
	switch {
	case len(payload.Details) > 0:
		msg = fmt.Sprintf("%s: %v", msg, payload.Details)
	case payload.ExistingJobID != "":
		msg = fmt.Sprintf("%s: existing_job_id=%s", msg, payload.ExistingJobID)
	}

	res := textResult(msg)
	res.IsError = true
	res.StructuredContent = payload
	return res, payload, true
}

// invalidArgument reports a malformed argument as a validation tool error
func invalidArgument(format string, args ...any) (*sdkmcp.CallToolResult, any, error) {
	payload := ToolError{Error: "invalid argument", Kind: "validation", Details: []string{fmt.Sprintf(format, args...)}}
	res := textResult(fmt.Sprintf("%s: %s", payload.Error, payload.Details[0]))
	res.IsError = true
	res.StructuredContent = payload
	return res, nil, nil
}
