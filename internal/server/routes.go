package server

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/model"
)

// MaxRandomCount caps the count parameter of GET /v1/random.
const MaxRandomCount = 1000

type convertRequest struct {
	// From optionally asserts the representation carried by the body.
	From string `json:"from"`
	To   string `json:"to"`
	convert.Rotation
}

type composeRequest struct {
	Rotations []convert.Rotation `json:"rotations"`
	To        string             `json:"to"`
	Order     string             `json:"order"`
}

type alignRequest struct {
	Vectors [][]float64 `json:"vectors"`
	To      string      `json:"to"`
	Order   string      `json:"order"`
}

type orderInfo struct {
	Order  string   `json:"order"`
	Proper bool     `json:"proper"`
	Axes   []string `json:"axes"`
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	v1 := s.app.Group("/v1")
	v1.Get("/conventions", s.handleConventions)
	v1.Post("/convert", s.handleConvert)
	v1.Post("/reverse", s.handleReverse)
	v1.Post("/compose", s.handleCompose)
	v1.Post("/align", s.handleAlign)
	v1.Get("/random", s.handleRandom)
}

func (s *Server) handleConventions(c *fiber.Ctx) error {
	orders := make([]orderInfo, 0, len(model.EulerOrders))
	for _, o := range model.EulerOrders {
		axes := o.Axes()
		orders = append(orders, orderInfo{
			Order:  o.String(),
			Proper: o.IsProper(),
			Axes:   []string{axes[0].String(), axes[1].String(), axes[2].String()},
		})
	}

	return c.JSON(fiber.Map{
		"defaultOrder": s.order.String(),
		"orders":       orders,
		"representations": []model.Representation{
			model.ReprMatrix, model.ReprAxisAngle, model.ReprQuaternion, model.ReprEuler, model.ReprTiltTorsion,
		},
	})
}

func (s *Server) handleConvert(c *fiber.Ctx) error {
	var req convertRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	to, err := parseRepresentation(req.To)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_REPRESENTATION", err.Error())
	}
	order, err := s.parseOrder(req.Order)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER", err.Error())
	}
	if req.From != "" {
		from, err := model.ParseRepresentation(req.From)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REPRESENTATION", err.Error())
		}
		kind, err := req.Kind()
		if err != nil {
			return writeDomainError(c, err)
		}
		if kind != from {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ROTATION",
				fmt.Sprintf("body carries %s, not %s", kind, from))
		}
	}

	v, err := s.interp.Apply(c.UserContext(), "convert", func(context.Context) (any, error) {
		return convert.Convert(req.Rotation, to, order)
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"rotation": v})
}

func (s *Server) handleReverse(c *fiber.Ctx) error {
	var req convert.Rotation
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	order, err := s.parseOrder(req.Order)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER", err.Error())
	}

	v, err := s.interp.Apply(c.UserContext(), "reverse", func(context.Context) (any, error) {
		return convert.Reverse(req, order)
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"rotation": v})
}

func (s *Server) handleCompose(c *fiber.Ctx) error {
	var req composeRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	if len(req.Rotations) == 0 {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ROTATION", "at least one rotation is required")
	}
	to, err := parseRepresentation(req.To)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_REPRESENTATION", err.Error())
	}
	order, err := s.parseOrder(req.Order)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER", err.Error())
	}

	v, err := s.interp.Apply(c.UserContext(), "compose", func(context.Context) (any, error) {
		R, err := convert.Compose(req.Rotations, order)
		if err != nil {
			return nil, err
		}
		return convert.FromMatrix(R, to, order)
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"rotation": v})
}

func (s *Server) handleAlign(c *fiber.Ctx) error {
	var req alignRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	if len(req.Vectors) != 2 {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ROTATION", "exactly two vectors are required")
	}
	to, err := parseRepresentation(req.To)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_REPRESENTATION", err.Error())
	}
	order, err := s.parseOrder(req.Order)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER", err.Error())
	}

	v, err := s.interp.Apply(c.UserContext(), "align", func(context.Context) (any, error) {
		R, err := convert.Align(req.Vectors[0], req.Vectors[1])
		if err != nil {
			return nil, err
		}
		return convert.FromMatrix(R, to, order)
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"rotation": v})
}

func (s *Server) handleRandom(c *fiber.Ctx) error {
	mode, err := convert.ParseRandomMode(c.Query("mode"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", err.Error())
	}

	var angle float64
	if raw := c.Query("angle"); raw != "" {
		angle, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid angle")
		}
	} else if mode == convert.RandomAxis {
		return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "angle is required for mode axis")
	}

	count := 1
	if raw := c.Query("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil || count < 1 || count > MaxRandomCount {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY",
				fmt.Sprintf("count must be between 1 and %d", MaxRandomCount))
		}
	}

	rng := s.rng
	if raw := c.Query("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid seed")
		}
		rng = convert.NewRand(&seed)
	}

	to, err := parseRepresentation(c.Query("to"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_REPRESENTATION", err.Error())
	}
	order, err := s.parseOrder(c.Query("order"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER", err.Error())
	}

	v, err := s.interp.Apply(c.UserContext(), "random", func(context.Context) (any, error) {
		out := make([]convert.Rotation, 0, count)
		for range count {
			R, err := convert.Random(rng, mode, angle)
			if err != nil {
				return nil, err
			}
			r, err := convert.FromMatrix(R, to, order)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"rotations": v})
}

func (s *Server) parseOrder(raw string) (model.EulerOrder, error) {
	if raw == "" {
		return s.order, nil
	}
	return model.ParseEulerOrder(raw)
}

// parseRepresentation defaults to the matrix form.
func parseRepresentation(raw string) (model.Representation, error) {
	if raw == "" {
		return model.ReprMatrix, nil
	}
	return model.ParseRepresentation(raw)
}
