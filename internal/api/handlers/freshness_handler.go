package handlers

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/internal/api/presenters"
	"MeatFresh-Backend/pkg/freshness"
	"time"

	"github.com/gofiber/fiber/v2"
)

type (
	FreshnessHandler interface {
		ComputeDeadline(c *fiber.Ctx) error
		SensoryDefaults(c *fiber.Ctx) error
	}

	freshnessHandler struct {
		now func() time.Time
	}
)

func NewFreshnessHandler() FreshnessHandler {
	return &freshnessHandler{now: time.Now}
}

// ComputeDeadline never rejects unknown levels, environments or containers;
// they fall back to the conservative rules of the freshness package.
func (h *freshnessHandler) ComputeDeadline(c *fiber.Ctx) error {
	q := new(domain.DeadlineQuery)
	if err := c.QueryParser(q); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedComputeDeadline, err)
	}

	if q.Reference < 0 || q.Reference > domain.MaxReferenceMillis {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedComputeDeadline, domain.ErrInvalidReference)
	}

	level := freshness.ParseLevel(q.Level)
	env := freshness.ParseEnvironment(q.Environment)
	container := freshness.ParseContainer(q.Container)

	reference := q.Reference
	if reference == 0 {
		reference = h.now().UnixMilli()
	}
	deadline := freshness.ComputeDeadlineMillis(level, env, container, reference)

	return presenters.SuccessResponse(c, domain.DeadlineResponse{
		Level:           int(level),
		Environment:     string(env),
		Container:       string(container),
		Reference:       reference,
		DurationMillis:  deadline - reference,
		StorageDeadline: deadline,
	}, fiber.StatusOK, domain.MessageSuccessComputeDeadline)
}

func (h *freshnessHandler) SensoryDefaults(c *fiber.Ctx) error {
	level := freshness.ParseLevel(c.Params("level"))
	return presenters.SuccessResponse(c, freshness.PredictSensoryDefaults(level), fiber.StatusOK, domain.MessageSuccessSensoryDefaults)
}
