package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"upi-cli/internal/model"
)

// RegisterApplication performs the terminal submission of a draft.
func (c *Client) RegisterApplication(ctx context.Context, d model.Draft) error {
	body, contentType, err := buildRegisterForm(d)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/upi/register"), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.doJSON(req, nil, "failed to submit application")
}

func (c *Client) ListApplications(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	if err := c.getJSON(ctx, "/upi/applications", &apps, "failed to load applications"); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	in := map[string]string{"status": string(status)}
	path := "/upi/applications/" + url.PathEscape(id) + "/status"
	return c.sendJSON(ctx, http.MethodPatch, path, in, nil, "failed to update status")
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	path := "/upi/applications/" + url.PathEscape(id)
	return c.sendJSON(ctx, http.MethodDelete, path, nil, nil, "failed to delete application")
}
