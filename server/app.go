package main

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"

	"github.com/meikuraledutech/mbqc"
)

// NewApp builds the Fiber application with all routes wired. store may
// be nil, in which case the project storage endpoints are not mounted.
func NewApp(svc *mbqc.Service, store mbqc.ProjectStore, log *zap.Logger, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "mbqc-studio"})

	app.Use(recoverer.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))
	app.Use(requestLogger(log))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ── Validation ────────────────────────────────────────────────────
	app.Post("/api/validate", func(c fiber.Ctx) error {
		p, err := mbqc.ParseProject(c.Body())
		if err != nil {
			return reject(c, log, err)
		}
		resp, err := svc.ValidateProject(c.Context(), p)
		if err != nil {
			return reject(c, log, err)
		}
		return c.JSON(resp)
	})

	// ── Flow ──────────────────────────────────────────────────────────
	app.Post("/api/compute-zflow", func(c fiber.Ctx) error {
		p, err := mbqc.ParseProject(c.Body())
		if err != nil {
			return reject(c, log, err)
		}
		zflow, err := svc.ComputeZFlow(c.Context(), p)
		if err != nil {
			return reject(c, log, err)
		}
		return c.JSON(zflow)
	})

	// ── Scheduling ────────────────────────────────────────────────────
	app.Post("/api/schedule", func(c fiber.Ctx) error {
		strategy, err := mbqc.ParseStrategy(c.Query("strategy", string(mbqc.MinimizeSpace)))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		timeout := cfg.SolveTimeout
		if v := c.Query("timeout"); v != "" {
			secs, err := strconv.Atoi(v)
			if err != nil || secs <= 0 {
				return c.Status(400).JSON(fiber.Map{"error": "timeout must be a positive number of seconds"})
			}
			timeout = time.Duration(secs) * time.Second
		}
		p, err := mbqc.ParseProject(c.Body())
		if err != nil {
			return reject(c, log, err)
		}
		result, err := svc.ComputeSchedule(c.Context(), p, strategy, timeout)
		if err != nil {
			return reject(c, log, err)
		}
		return c.JSON(result)
	})

	app.Post("/api/validate-schedule", func(c fiber.Ctx) error {
		req, err := mbqc.ParseScheduleValidateRequest(c.Body())
		if err != nil {
			return reject(c, log, err)
		}
		resp, err := svc.ValidateSchedule(c.Context(), req.Project, req.Schedule)
		if err != nil {
			return reject(c, log, err)
		}
		return c.JSON(resp)
	})

	if store != nil {
		mountStorage(app, store, log)
	}

	return app
}

// mountStorage wires the editor's save/open surface.
func mountStorage(app *fiber.App, store mbqc.ProjectStore, log *zap.Logger) {
	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Projects ──────────────────────────────────────────────────────
	app.Put("/api/projects/:name", func(c fiber.Ctx) error {
		req, err := mbqc.ParseSaveProjectRequest(c.Body())
		if err != nil {
			return reject(c, log, err)
		}
		rec, err := store.SaveProject(c.Context(), &mbqc.ProjectRecord{
			Name:     c.Params("name"),
			Payload:  req.Payload,
			Schedule: req.Schedule,
		})
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(rec)
	})

	app.Get("/api/projects/:name", func(c fiber.Ctx) error {
		rec, err := store.GetProject(c.Context(), c.Params("name"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if rec == nil {
			return c.Status(404).JSON(fiber.Map{"error": "project not found"})
		}
		return c.JSON(rec)
	})

	app.Get("/api/projects", func(c fiber.Ctx) error {
		recs, err := store.ListProjects(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(recs)
	})

	app.Delete("/api/projects/:name", func(c fiber.Ctx) error {
		if err := store.DeleteProject(c.Context(), c.Params("name")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})
}

// reject maps pipeline errors onto transport responses: schema and
// unknown-id problems are 422s, solver failures 400s, engine semantic
// errors 400s with their translated message, and anything else a generic
// 500 that never leaks internals.
func reject(c fiber.Ctx, log *zap.Logger, err error) error {
	var se *mbqc.SchemaError
	var ue *mbqc.UnknownIDError
	var ee *mbqc.EngineError
	switch {
	case errors.As(err, &se), errors.As(err, &ue):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, mbqc.ErrNoSolution):
		return c.Status(400).JSON(fiber.Map{"error": "schedule computation failed: no solution found"})
	case errors.Is(err, mbqc.ErrSolveTimeout):
		return c.Status(400).JSON(fiber.Map{"error": "schedule computation failed: timed out"})
	case errors.As(err, &ee):
		return c.Status(400).JSON(fiber.Map{"error": "schedule computation failed: " + ee.Message})
	}
	log.Error("internal error", zap.Error(err))
	return c.Status(500).JSON(fiber.Map{"error": "internal error"})
}

// requestLogger logs one structured line per request.
func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestID", requestid.FromContext(c)),
		)
		return err
	}
}
