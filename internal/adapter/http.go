package adapter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/utils"
	"github.com/MKhiriev/notesync/models"
)

// HashHeader carries the HMAC-SHA256 of the request body when a hash key is
// configured.
const HashHeader = "X-Content-Hash"

type httpRemoteBackend struct {
	client *utils.HTTPClient

	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPRemoteBackend constructs an HTTP/REST implementation of
// [RemoteBackend]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress, configures the underlying HTTP client with the
// resolved base URL and request timeout, and initialises the shared HMAC
// hasher pool used for transport integrity hashes.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteBackend(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteBackend, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout)

	if appCfg.HashKey != "" {
		utils.InitHasherPool(appCfg.HashKey)
	}

	backend := &httpRemoteBackend{client: client, hashKey: appCfg.HashKey, logger: logger}
	backend.SetToken(adapterCfg.Token)

	return backend, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [RemoteBackend]. The token is whitespace-trimmed.
func (h *httpRemoteBackend) SetToken(token string) {
	h.mu.Lock()
	h.token = strings.TrimSpace(token)
	h.mu.Unlock()
}

// ListChanges implements [RemoteBackend] with GET /api/sync/changes.
func (h *httpRemoteBackend) ListChanges(ctx context.Context, cursor string) (models.ChangeSet, error) {
	var changes models.ChangeSet

	resp, err := h.authedRequest(ctx).
		SetQueryParam("cursor", cursor).
		SetResult(&changes).
		Get("/api/sync/changes")
	if err != nil {
		return models.ChangeSet{}, mapTransportError("list changes request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ChangeSet{}, err
	}

	logger.FromContext(ctx).Debug().
		Str("func", "httpRemoteBackend.ListChanges").
		Int("entities", len(changes.Entities)).
		Str("cursor", changes.Cursor).
		Msg("received remote changes")

	return changes, nil
}

// PushEntity implements [RemoteBackend] with PUT /api/entities. The body is
// signed when a hash key is configured.
func (h *httpRemoteBackend) PushEntity(ctx context.Context, req models.PushRequest) (models.PushResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.PushResult{}, fmt.Errorf("%w: encode push request: %w", ErrValidation, err)
	}

	var result models.PushResult
	r := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result)
	if hash := h.transportHash(body); hash != "" {
		r.SetHeader(HashHeader, hash)
	}

	resp, err := r.Put("/api/entities")
	if err != nil {
		return models.PushResult{}, mapTransportError("push entity request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResult{}, err
	}
	if result.RemoteID == "" || result.VersionTag == "" {
		return models.PushResult{}, fmt.Errorf("%w: push response without remote id or version", ErrValidation)
	}

	return result, nil
}

// DeleteEntity implements [RemoteBackend] with
// DELETE /api/entities/{type}/{remoteID}.
func (h *httpRemoteBackend) DeleteEntity(ctx context.Context, entityType models.EntityType, remoteID string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParams(map[string]string{"type": string(entityType), "id": remoteID}).
		Delete("/api/entities/{type}/{id}")
	if err != nil {
		return mapTransportError("delete entity request", err)
	}

	err = mapHTTPError(resp)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// UploadBlob implements [RemoteBackend] with POST /api/blobs.
func (h *httpRemoteBackend) UploadBlob(ctx context.Context, blob []byte, contentType string) (string, error) {
	var result models.BlobResult

	r := h.authedRequest(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(blob).
		SetResult(&result)
	if hash := h.transportHash(blob); hash != "" {
		r.SetHeader(HashHeader, hash)
	}

	resp, err := r.Post("/api/blobs")
	if err != nil {
		return "", mapTransportError("upload blob request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if result.Key == "" {
		return "", fmt.Errorf("%w: blob response without key", ErrValidation)
	}

	return result.Key, nil
}

func (h *httpRemoteBackend) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)

	h.mu.RLock()
	token := h.token
	h.mu.RUnlock()

	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func (h *httpRemoteBackend) transportHash(payload []byte) string {
	if h.hashKey == "" {
		return ""
	}
	return hex.EncodeToString(utils.Hash(payload))
}
