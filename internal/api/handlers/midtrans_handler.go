package handlers

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/internal/api/presenters"
	"MeatFresh-Backend/pkg/midtrans"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MidtransHandler interface {
		GetPlans(c *fiber.Ctx) error
		CreateTransaction(c *fiber.Ctx) error
		MidtransWebhookHandler(c *fiber.Ctx) error
	}

	midtransHandler struct {
		midtransService midtrans.MidtransService
		validator       *validator.Validate
	}
)

func NewMidtransHandler(midtransService midtrans.MidtransService, validator *validator.Validate) MidtransHandler {
	return &midtransHandler{
		midtransService: midtransService,
		validator:       validator,
	}
}

func (h *midtransHandler) GetPlans(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, h.midtransService.GetPlans(), fiber.StatusOK, domain.MessageSuccessGetPlans)
}

func (h *midtransHandler) CreateTransaction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.MidtransPaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateTransaction, err)
	}

	res, err := h.midtransService.CreateTransaction(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedCreateTransaction, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateTransaction)
}

func (h *midtransHandler) MidtransWebhookHandler(c *fiber.Ctx) error {
	req := new(domain.MidtransNotification)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNotification, err)
	}

	err := h.midtransService.HandleNotification(c.Context(), *req)
	switch {
	case err == nil, errors.Is(err, domain.ErrTransactionCompleted):
		// Midtrans retries anything but a 200
		return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessNotification)
	default:
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedNotification, err)
	}
}
