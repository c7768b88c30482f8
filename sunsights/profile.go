package sunsights

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Profile and notes are simple pass-through calls; the backend owns all
// validation beyond the obvious.

func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, "/api/profile", nil, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, p Profile) error {
	return c.putJSON(ctx, "/api/profile", p, nil)
}

func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := c.getJSON(ctx, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, content string) (Note, error) {
	if strings.TrimSpace(content) == "" {
		return Note{}, errors.New("note content must not be empty")
	}
	var created Note
	body := map[string]string{"content": content}
	if err := c.postJSON(ctx, "/api/notes", body, &created); err != nil {
		return Note{}, err
	}
	return created, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int, content string) error {
	if id <= 0 {
		return errors.New("note id must be positive")
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("note content must not be empty")
	}
	body := map[string]string{"content": content}
	return c.putJSON(ctx, fmt.Sprintf("/api/notes/%d", id), body, nil)
}

func (c *Client) DeleteNote(ctx context.Context, id int) error {
	if id <= 0 {
		return errors.New("note id must be positive")
	}
	return c.deleteJSON(ctx, fmt.Sprintf("/api/notes/%d", id), nil)
}
