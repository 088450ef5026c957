// Package qomb is an HTTP adapter to a graphqomb engine daemon. It
// implements mbqc.Engine by accumulating each graph's spec locally and
// shipping the whole graph with every check or solve call, one daemon
// round trip per engine operation.
package qomb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/meikuraledutech/mbqc"
)

// Client talks to a graphqomb engine daemon over HTTP.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client for the daemon at baseURL.
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{},
	}
}

// NewGraph returns an empty graph handle. No request is made until the
// first check or solve.
func (c *Client) NewGraph(ctx context.Context) (mbqc.Graph, error) {
	return &graph{
		c:       c,
		inputs:  map[int]int{},
		outputs: map[int]int{},
		bases:   map[int]basisSpec{},
	}, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("qomb: %s: encode: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("qomb: %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("qomb: %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("qomb: %s: decode: %w", path, err)
		}
		return nil
	case http.StatusUnprocessableEntity:
		var fail struct {
			Error struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&fail); err != nil {
			return fmt.Errorf("qomb: %s: decode failure body: %w", path, err)
		}
		return engineErr(fail.Error.Kind, fail.Error.Message)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("qomb: %s: unexpected status %d: %s", path, resp.StatusCode, string(b))
	}
}

// engineErr maps daemon failure kinds onto the root package's error
// model: solver outcomes become sentinels, everything else an EngineError
// whose message keeps the daemon's index-space text.
func engineErr(kind, msg string) error {
	switch kind {
	case "no_solution":
		return mbqc.ErrNoSolution
	case "timeout":
		return mbqc.ErrSolveTimeout
	default:
		return &mbqc.EngineError{Kind: kind, Message: msg}
	}
}
