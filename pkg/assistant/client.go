// Package assistant talks to the stateless Q&A text service that answers
// participant questions from a fixed knowledge prompt. The engine imposes no
// retry or timeout policy beyond surfacing a generic failure reply.
package assistant

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hackos/hackd/pkg/clog"
)

// FailureReply is returned to the caller on any transport or service error.
const FailureReply = "Connection Error. Unable to reach neural net."

// Asker is the collaborator contract: ask(message, contextSummary) -> reply.
type Asker interface {
	Ask(message, unitID, status string) string
}

type askRequest struct {
	Message string `json:"message"`
	UnitID  string `json:"unit_id"`
	Status  string `json:"status"`
}

type askResponse struct {
	Reply string `json:"reply"`
}

type Client struct {
	c   *resty.Client
	url string
}

func NewClient(serviceURL string) *Client {
	c := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{c: c, url: serviceURL}
}

func (c *Client) Ask(message, unitID, status string) string {
	var reply askResponse

	// Decode as JSON even when the service omits the content type header.
	resp, err := c.c.R().
		SetBody(askRequest{Message: message, UnitID: unitID, Status: status}).
		SetResult(&reply).
		ForceContentType("application/json").
		Post(c.url)

	switch {
	case err != nil:
		clog.UsingCtx("assistant").Errorf("ask failed: %s", err)
		return FailureReply
	case resp.IsError():
		clog.UsingCtx("assistant").Errorf("ask failed: status %d", resp.StatusCode())
		return FailureReply
	case reply.Reply == "":
		return FailureReply
	}

	return reply.Reply
}
