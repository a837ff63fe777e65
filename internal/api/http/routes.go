package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/floodwatch-br/floodwatch/internal/chat"
	"github.com/floodwatch-br/floodwatch/internal/mapproxy"
	"github.com/floodwatch-br/floodwatch/internal/mapview"
	"github.com/floodwatch-br/floodwatch/internal/risk"
)

var validate = validator.New()

// Deps bundles the collaborators the HTTP layer wires together.
type Deps struct {
	Availability risk.Availability
	ViewModel    *mapview.ViewModel
	Chat         *chat.Manager
	Mapbox       *mapproxy.Client
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return renderPage(c, deps.Availability)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/dates", func(c *fiber.Ctx) error {
		return c.JSON(availabilityResponse(deps.Availability))
	})

	v1.Get("/map", func(c *fiber.Ctx) error {
		dateStr := c.Query("date")
		if dateStr == "" {
			// No selection renders a valid, empty map.
			return c.JSON(deps.ViewModel.Render(time.Time{}))
		}

		day, err := risk.ParseDate(dateStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// A date with no data (disabled or out of range) is not an error.
		return c.JSON(deps.ViewModel.Render(day))
	})

	v1.Get("/map/style", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()

		style, err := deps.Mapbox.FetchStyle(ctx)
		if err != nil {
			if errors.Is(err, mapproxy.ErrNoToken) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "map imagery is not configured")
			}
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch base map style")
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(style)
	})

	v1.Get("/chat/questions", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"questions": chat.Questions})
	})

	v1.Post("/chat/sessions", func(c *fiber.Ctx) error {
		s := deps.Chat.Create()
		return c.Status(fiber.StatusCreated).JSON(sessionResponse(s))
	})

	v1.Get("/chat/sessions/:id", func(c *fiber.Ctx) error {
		s, err := deps.Chat.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "chat session not found")
		}
		return c.JSON(sessionResponse(s))
	})

	v1.Post("/chat/sessions/:id/events", func(c *fiber.Ctx) error {
		var req chatEventRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed event body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		err := deps.Chat.Apply(c.Params("id"), req.toEvent())
		switch {
		case err == nil:
		case errors.Is(err, chat.ErrSessionNotFound):
			return fiber.NewError(fiber.StatusNotFound, "chat session not found")
		case errors.Is(err, chat.ErrQuestionPending):
			return fiber.NewError(fiber.StatusConflict, "a question is already pending")
		case errors.Is(err, chat.ErrUnknownQuestion):
			return fiber.NewError(fiber.StatusUnprocessableEntity, "question is not in the fixed set")
		default:
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s, err := deps.Chat.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "chat session not found")
		}
		return c.JSON(sessionResponse(s))
	})
}

// chatEventRequest is the body of a chat event post.
type chatEventRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=open close ask"`
	Question string `json:"question" validate:"required_if=Kind ask"`
}

func (r chatEventRequest) toEvent() chat.Event {
	return chat.Event{
		Kind:     chat.EventKind(r.Kind),
		Question: r.Question,
	}
}

func sessionResponse(s *chat.Session) fiber.Map {
	return fiber.Map{
		"id":       s.ID(),
		"state":    s.State(),
		"messages": s.Messages(),
	}
}

// availabilityResponse serializes dates as plain yyyy-mm-dd strings, the
// shape the page's date picker consumes.
func availabilityResponse(a risk.Availability) fiber.Map {
	return fiber.Map{
		"minDate":        risk.DayKey(a.MinDate),
		"maxDate":        risk.DayKey(a.MaxDate),
		"availableDates": dayKeys(a.AvailableDates),
		"disabledDates":  dayKeys(a.DisabledDates),
	}
}

func dayKeys(days []time.Time) []string {
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, risk.DayKey(d))
	}
	return keys
}
