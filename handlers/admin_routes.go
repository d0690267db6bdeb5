// handlers/admin_routes.go
package handlers

import (
	"safeblues-backend/middleware"
	"safeblues-backend/services"

	"github.com/gofiber/fiber/v2"
)

// AdminAPI bundles the services behind the admin routes.
type AdminAPI struct {
	Admin  *services.AdminService
	Export *services.ExportService
}

func SetupAdminRoutes(app *fiber.App, api AdminAPI) {
	app.Post("/admin/sign_in", api.signIn)

	// 🔐 Everything else needs a live admin session
	secured := app.Group("/admin", middleware.AdminAuthMiddleware(api.Admin))
	secured.Post("/sign_out", api.signOut)
	secured.Post("/accounts", api.createAccount)
	secured.Get("/participants", api.listParticipants)
	secured.Put("/participants/:participant_id/extra_hours", api.setExtraHours)
	secured.Post("/export", api.export)
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (api AdminAPI) signIn(c *fiber.Ctx) error {
	var req credentials
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	sess, err := api.Admin.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
	})
}

func (api AdminAPI) signOut(c *fiber.Ctx) error {
	token, _ := c.Locals("session_token").(string)
	if err := api.Admin.SignOut(c.UserContext(), token); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "signed out"})
}

func (api AdminAPI) createAccount(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	acct, err := api.Admin.CreateAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(acct)
}

func (api AdminAPI) listParticipants(c *fiber.Ctx) error {
	list, err := api.Admin.ListParticipants(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(list)
}

func (api AdminAPI) setExtraHours(c *fiber.Ctx) error {
	var req struct {
		ExtraHours *float64 `json:"extra_hours" validate:"required"`
	}
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	id := c.Params("participant_id")
	if err := api.Admin.SetExtraHours(c.UserContext(), id, *req.ExtraHours); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"participant_id": id,
		"extra_hours":    *req.ExtraHours,
	})
}

func (api AdminAPI) export(c *fiber.Ctx) error {
	res, err := api.Export.Export(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(res)
}
