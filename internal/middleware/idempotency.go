package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SubmissionField is the hidden form field carrying a one-time submission id
const SubmissionField = "submissionId"

const pendingMarker = "pending"

const committedKey = "submission.committed"

// MarkCommitted records that the submission took effect. Only committed
// submissions are remembered; anything else releases the id so the
// corrected form can be posted again.
func MarkCommitted(c *fiber.Ctx) {
	c.Locals(committedKey, true)
}

func committed(c *fiber.Ctx) bool {
	ok, _ := c.Locals(committedKey).(bool)
	return ok
}

type storedResponse struct {
	Status      int    `json:"status"`
	Location    string `json:"location,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency makes a form submission take effect once. The submission id
// comes from X-Correlation-ID or the submissionId form field. A repeat
// while the first is running gets 409; a repeat after it finished gets the
// first response replayed. Submissions the handler did not mark with
// MarkCommitted release the id so they can be retried.
func Idempotency(redisClient *redis.Client, ttl time.Duration, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPatch && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		submissionID := c.Get("X-Correlation-ID")
		if submissionID == "" {
			submissionID = c.FormValue(SubmissionField)
		}
		if submissionID == "" {
			return c.Next()
		}

		key := fmt.Sprintf("idempotency:%s:%s", Current(c).ID, submissionID)
		ctx := c.UserContext()

		claimed, err := redisClient.SetNX(ctx, key, pendingMarker, ttl).Result()
		if err != nil {
			logger.Warn().Err(err).Msg("idempotency check unavailable")
			return c.Next()
		}

		if !claimed {
			return replay(c, redisClient, key)
		}

		handlerErr := c.Next()
		status := c.Response().StatusCode()
		if handlerErr != nil || status >= fiber.StatusInternalServerError || !committed(c) {
			release(redisClient, key)
			return handlerErr
		}

		stored := storedResponse{
			Status:      status,
			Location:    string(c.Response().Header.Peek(fiber.HeaderLocation)),
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		data, err := json.Marshal(stored)
		if err == nil {
			err = redisClient.Set(ctx, key, data, ttl).Err()
		}
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to store submission response")
		}
		return nil
	}
}

func replay(c *fiber.Ctx, redisClient *redis.Client, key string) error {
	data, err := redisClient.Get(c.UserContext(), key).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read submission: %w", err)
	}
	if len(data) == 0 || string(data) == pendingMarker {
		return fiber.NewError(fiber.StatusConflict, "Yêu cầu đang được xử lý")
	}

	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to decode stored submission: %w", err)
	}

	c.Set("X-Idempotent-Replay", "true")
	if stored.Location != "" {
		c.Set(fiber.HeaderLocation, stored.Location)
	}
	if stored.ContentType != "" {
		c.Set(fiber.HeaderContentType, stored.ContentType)
	}
	return c.Status(stored.Status).Send(stored.Body)
}

func release(redisClient *redis.Client, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	redisClient.Del(ctx, key)
}
