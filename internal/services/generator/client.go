package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/phambaophuc/image-gen/internal/models"
)

const (
	maxResponseBody = 1 << 20
	maxErrorMessage = 256
)

func (r *ImageRequester) requestGeneration(ctx context.Context, body models.GenerationRequest) (*models.GenerationResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, requestFailed(0, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return nil, requestFailed(0, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, requestFailed(0, "failed to send request", err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, requestFailed(resp.StatusCode, apiErrorMessage(respBody), nil)
	}
	if readErr != nil {
		return nil, requestFailed(resp.StatusCode, "failed to read response", readErr)
	}

	var result models.GenerationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, malformedResponse("failed to decode response", err)
	}

	return &result, nil
}

// firstImage returns the first descriptor once its URL is known to be fetchable.
func firstImage(resp *models.GenerationResponse) (*models.ImageDescriptor, error) {
	if len(resp.Data) == 0 {
		return nil, malformedResponse("response contains no images", nil)
	}

	image := &resp.Data[0]
	if image.URL == "" {
		return nil, malformedResponse("image has no url", nil)
	}

	u, err := url.Parse(image.URL)
	if err != nil {
		return nil, malformedResponse("invalid image url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, malformedResponse(fmt.Sprintf("unsupported image url %q", image.URL), nil)
	}

	return image, nil
}

// apiErrorMessage prefers the provider's error envelope and falls back to
// the raw body.
func apiErrorMessage(body []byte) string {
	var apiErr models.APIErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		if apiErr.Error.Type != "" {
			return fmt.Sprintf("%s (%s)", apiErr.Error.Message, apiErr.Error.Type)
		}
		return apiErr.Error.Message
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage] + "..."
	}
	return msg
}
