package invitesdk

import (
	"context"
	"net/http"
)

// CreateResource registers a resource owned by the caller.
func (s *Session) CreateResource(ctx context.Context, name string) (*ResourceResponse, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/resources", CreateResourceRequest{Name: name})
	if err != nil {
		return nil, err
	}

	var out ResourceResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}

	return &out, nil
}
