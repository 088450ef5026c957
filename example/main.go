package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/meikuraledutech/mbqc"
	"github.com/meikuraledutech/mbqc/enginetest"
)

func main() {
	ctx := context.Background()

	// The in-memory engine stands in for a real graphqomb daemon.
	svc := mbqc.NewService(enginetest.New())

	payload := []byte(`{
		"name": "bell-pair",
		"dimension": 2,
		"nodes": [
			{"id": "n0", "coordinate": {"x": 0, "y": 0}, "role": "input",
			 "measBasis": {"type": "planner", "plane": "XY", "angleCoeff": 0},
			 "qubitIndex": 0},
			{"id": "n1", "coordinate": {"x": 1, "y": 0}, "role": "output", "qubitIndex": 0}
		],
		"edges": [{"id": "n0-n1", "source": "n0", "target": "n1"}],
		"flow": {"xflow": {"n0": ["n1"]}, "zflow": "auto"}
	}`)

	project, err := mbqc.ParseProject(payload)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	// ── Validate ──────────────────────────────────────────────────────
	result, err := svc.ValidateProject(ctx, project)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}
	fmt.Println("validation:")
	printJSON(result)

	// ── Derive z-flow ─────────────────────────────────────────────────
	zflow, err := svc.ComputeZFlow(ctx, project)
	if err != nil {
		log.Fatalf("compute zflow: %v", err)
	}
	fmt.Println("\nderived z-flow:")
	printJSON(zflow)

	// ── Schedule ──────────────────────────────────────────────────────
	schedule, err := svc.ComputeSchedule(ctx, project, mbqc.MinimizeSpace, 60*time.Second)
	if err != nil {
		log.Fatalf("schedule: %v", err)
	}
	fmt.Println("\nschedule:")
	printJSON(schedule)

	// ── Tamper with the schedule and re-validate ──────────────────────
	bad := 0
	schedule.MeasureTime["n1"] = &bad
	check, err := svc.ValidateSchedule(ctx, project, schedule)
	if err != nil {
		log.Fatalf("validate schedule: %v", err)
	}
	fmt.Println("\ntampered schedule:")
	printJSON(check)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
