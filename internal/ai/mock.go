package ai

import "context"

type MockAdapter struct {
	// URL is returned for every agent when set.
	URL string
}

func (m MockAdapter) SessionURL(ctx context.Context, agentID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.URL, nil
}
