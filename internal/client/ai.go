package client

import (
	"context"
	"net/http"
	"time"
)

// AI calls the external agent service that actually executes prompts.
// The backend is not involved in this path at all — the agent service
// creates the job rows the backend later serves as history.
type AI struct {
	baseURL string
	http    *http.Client
}

// NewAI creates an AI client for the given base URL
// (e.g. "http://localhost:8000").
//
// Agent runs can take a while — the timeout is generous compared to the
// backend client's.
func NewAI(baseURL string) *AI {
	return &AI{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// AgentResult is the agent service's response.
type AgentResult struct {
	Result string `json:"result"`
	JobID  string `json:"job_id,omitempty"`
}

// RunAgent submits a prompt to POST {AI_URL}/v1/agent/run and returns the
// result text. The bearer token is optional; when present it lets the
// agent service attribute the job to the user.
func (a *AI) RunAgent(ctx context.Context, prompt, token string) (*AgentResult, error) {
	var res AgentResult
	err := doJSON(ctx, a.http, http.MethodPost, a.baseURL+"/v1/agent/run", token,
		map[string]string{"prompt": prompt}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
