// handlers/participant_routes.go
package handlers

import (
	"strconv"

	"safeblues-backend/services"

	"github.com/gofiber/fiber/v2"
)

// ParticipantAPI bundles the services behind the public participant routes.
type ParticipantAPI struct {
	Participants *services.ParticipantService
	Ingestion    *services.IngestionService
	Stats        *services.StatsService
}

func SetupParticipantRoutes(app *fiber.App, api ParticipantAPI) {
	app.Post("/v2/participants", api.register)
	app.Post("/push_experiment_data", api.pushExperimentData)

	app.Get("/api/stats", api.populationStats)
	app.Get("/api/stats/:participant_id", api.participantStats)
	app.Get("/api/referral_code/:participant_id", api.referralCode)
	app.Get("/api/num_participants", api.numParticipants)
}

func (api ParticipantAPI) register(c *fiber.Ctx) error {
	var req services.Registration
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	p, err := api.Participants.Register(c.UserContext(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":        fiber.StatusOK,
		"referral_code": p.ReferralCode,
	})
}

// pushExperimentData takes the statuses pushed by the app relay and the
// mobile apps. The push is acknowledged once every status was attempted.
func (api ParticipantAPI) pushExperimentData(c *fiber.Ctx) error {
	var req services.Submission
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	res := api.Ingestion.Submit(c.UserContext(), req)
	return c.JSON(fiber.Map{
		"status": fiber.StatusOK,
		"result": res,
	})
}

func (api ParticipantAPI) participantStats(c *fiber.Ctx) error {
	stats, err := api.Stats.GetStats(c.UserContext(), c.Params("participant_id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

// populationStats is consumed by the participant site's stats page. It
// lists no identifying information.
func (api ParticipantAPI) populationStats(c *fiber.Ctx) error {
	stats, err := api.Stats.GetPopulationStats(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (api ParticipantAPI) referralCode(c *fiber.Ctx) error {
	id := c.Params("participant_id")
	code, err := api.Participants.GetReferralCode(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"participant_id": id,
		"referral_code":  code,
	})
}

func (api ParticipantAPI) numParticipants(c *fiber.Ctx) error {
	n, err := api.Participants.CountParticipants(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"num_participants": strconv.FormatInt(n, 10)})
}
