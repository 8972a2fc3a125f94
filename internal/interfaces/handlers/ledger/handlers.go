package ledger

import (
	ledgersvc "airgrid-backend/internal/application/ledger"
	"airgrid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *ledgersvc.Service
}

// OpenAccount POST /api/v1/ledger/accounts — provisioning surface for dev and
// test balances; production balances arrive from the payment rail.
func (h *Handlers) OpenAccount(c *fiber.Ctx) error {
	var body struct {
		AccountID string `json:"account_id"`
		Balance   uint64 `json:"balance"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	id, err := uuid.Parse(body.AccountID)
	if err != nil {
		return response.Error(c, "Invalid account_id", fiber.StatusBadRequest, nil)
	}
	account, err := h.Service.OpenAccount(c.Context(), id, body.Balance)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Account opened", account, nil)
}

// Balance GET /api/v1/ledger/accounts/:id
func (h *Handlers) Balance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid account id", fiber.StatusBadRequest, nil)
	}
	account, err := h.Service.Balance(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Account", account, nil)
}
