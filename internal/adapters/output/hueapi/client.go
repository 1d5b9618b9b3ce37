package hueapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hue-bridge-client/internal/domain/model"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/amimof/huego"
)

const DefaultDiscoveryURL = "https://discovery.meethue.com/"

// maxBody caps how much of a response is read; bridge replies are small.
const maxBody = 1 << 20

type Client struct {
	discoveryURL string
	httpClient   *http.Client
}

func NewClient(discoveryURL string, timeout time.Duration) *Client {
	if discoveryURL == "" {
		discoveryURL = DefaultDiscoveryURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		discoveryURL: discoveryURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// response entry of the v1 API: each element carries either success or error.
type apiEntry struct {
	Success json.RawMessage `json:"success,omitempty"`
	Error   *model.APIError `json:"error,omitempty"`
}

type bridgeStatus struct {
	Name     string `json:"name"`
	BridgeID string `json:"bridgeid"`
	ModelID  string `json:"modelid"`
}

func (c *Client) Discover(ctx context.Context) ([]model.Candidate, error) {
	body, err := c.do(ctx, http.MethodGet, c.discoveryURL, nil)
	if err != nil {
		return nil, err
	}

	var bridges []huego.Bridge
	if err := json.Unmarshal(body, &bridges); err != nil {
		return nil, fmt.Errorf("%w: discovery: %v", model.ErrMalformedResponse, err)
	}

	candidates := make([]model.Candidate, 0, len(bridges))
	for _, b := range bridges {
		if b.Host == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{ID: b.ID, InternalAddress: b.Host})
	}
	return candidates, nil
}

func (c *Client) BridgeID(ctx context.Context, address string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, bridgeURL(address, "config"), nil)
	if err != nil {
		return "", err
	}

	var status bridgeStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return "", fmt.Errorf("%w: config: %v", model.ErrMalformedResponse, err)
	}
	return status.BridgeID, nil
}

func (c *Client) CreateUser(ctx context.Context, address, deviceType string) (string, error) {
	payload, err := json.Marshal(map[string]string{"devicetype": deviceType})
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, http.MethodPost, bridgeURL(address), payload)
	if err != nil {
		return "", err
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: empty pairing response", model.ErrMalformedResponse)
	}

	first := entries[0]
	if first.Error != nil {
		if first.Error.Type == model.APIErrorLinkButtonNotSet {
			return "", fmt.Errorf("%w: %w", model.ErrLinkButtonNotPressed, first.Error)
		}
		return "", first.Error
	}

	var success struct {
		Username string `json:"username"`
	}
	if len(first.Success) == 0 || json.Unmarshal(first.Success, &success) != nil || success.Username == "" {
		return "", fmt.Errorf("%w: pairing response without username", model.ErrMalformedResponse)
	}
	return success.Username, nil
}

func (c *Client) Lights(ctx context.Context, address, username string) ([]model.Light, error) {
	body, err := c.do(ctx, http.MethodGet, bridgeURL(address, username, "lights"), nil)
	if err != nil {
		return nil, err
	}

	if isArray(body) {
		entries, err := decodeEntries(body)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Error == nil {
				continue
			}
			if isUnauthorized(e.Error) {
				return nil, fmt.Errorf("%w: %w", model.ErrUnauthorized, e.Error)
			}
			return nil, e.Error
		}
		return nil, fmt.Errorf("%w: unexpected array from lights endpoint", model.ErrMalformedResponse)
	}

	var raw map[string]huego.Light
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: lights: %v", model.ErrMalformedResponse, err)
	}

	lights := make([]model.Light, 0, len(raw))
	for id, l := range raw {
		light := model.Light{ID: id, Name: l.Name, Type: l.Type}
		if l.State != nil {
			light.On = l.State.On
			light.Brightness = l.State.Bri
			light.Reachable = l.State.Reachable
		}
		lights = append(lights, light)
	}
	sort.Slice(lights, func(i, j int) bool { return lessID(lights[i].ID, lights[j].ID) })
	return lights, nil
}

func (c *Client) SetLightState(ctx context.Context, address, username, lightID string, state map[string]interface{}) (*model.StateUpdateResult, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPut, bridgeURL(address, username, "lights", lightID, "state"), payload)
	if err != nil {
		return nil, err
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, err
	}

	result := &model.StateUpdateResult{Applied: make(map[string]interface{})}
	for _, e := range entries {
		if e.Error != nil {
			result.Errors = append(result.Errors, e.Error)
			continue
		}
		var applied map[string]interface{}
		if err := json.Unmarshal(e.Success, &applied); err != nil {
			return nil, fmt.Errorf("%w: state reply: %v", model.ErrMalformedResponse, err)
		}
		for k, v := range applied {
			result.Applied[k] = v
		}
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", model.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrUnreachable, url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s %s: status %d", model.ErrMalformedResponse, method, url, resp.StatusCode)
	}
	return body, nil
}

func decodeEntries(body []byte) ([]apiEntry, error) {
	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)
	}
	for _, e := range entries {
		if e.Error == nil && len(e.Success) == 0 {
			return nil, fmt.Errorf("%w: entry without success or error", model.ErrMalformedResponse)
		}
	}
	return entries, nil
}

func bridgeURL(address string, parts ...string) string {
	return "http://" + strings.TrimSuffix(address, "/") + "/" + strings.Join(append([]string{"api"}, parts...), "/")
}

func isArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isUnauthorized(e *model.APIError) bool {
	return e.Type == model.APIErrorUnauthorized || strings.EqualFold(e.Description, "unauthorized user")
}

// lessID orders numeric light IDs numerically ("2" before "10").
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
