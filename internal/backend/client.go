package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/telemetry"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "mealturn-backend-client"

// CorrelationHeader tags every mutation so the backend can de-duplicate retries
const CorrelationHeader = "X-Correlation-ID"

// Client is the typed client of the meal-ordering REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the backend rooted at baseURL (e.g. "http://host/api")
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type tokenKey struct{}

// WithToken attaches the bearer token sent with every call made with ctx
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token attached to ctx
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Empty is the payload type of endpoints that only return a message
type Empty = json.RawMessage

// call performs one request and decodes the envelope. Calls are never
// retried here; the query cache owns the retry policy.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body interface{}) (*domain.Envelope[T], error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "backend "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("backend.path", path),
		),
	)
	defer span.End()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method != http.MethodGet {
		req.Header.Set(CorrelationHeader, ulid.Make().String())
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.RecordBackendCall(ctx, method, route(path), 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return nil, fmt.Errorf("failed to execute request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	telemetry.RecordBackendCall(ctx, method, route(path), resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env domain.Envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 300 || (decodeErr == nil && !env.Success) {
		apiErr := &domain.APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
			}
			if apiErr.Message == "" {
				apiErr.Message = env.Message
			}
		}
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, apiErr
	}

	if decodeErr != nil {
		span.RecordError(decodeErr)
		return nil, fmt.Errorf("failed to decode %s %s response: %w", method, path, decodeErr)
	}

	return &env, nil
}

// data unwraps the payload of an envelope that must carry one
func data[T any](env *domain.Envelope[T], err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("backend returned no data: %w", domain.ErrNotFound)
	}
	return env.Data, nil
}

// list unwraps a list payload, treating a missing list as empty
func list[T any](env *domain.Envelope[[]T], err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return *env.Data, nil
}

// message unwraps the envelope message of a mutation
func message[T any](env *domain.Envelope[T], err error) (string, error) {
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// IsUnauthorized reports whether err means the session token was rejected
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// route replaces id and date segments so metrics stay low-cardinality
func route(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.ContainsAny(seg, "0123456789") {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func escape(id string) string {
	return url.PathEscape(id)
}
