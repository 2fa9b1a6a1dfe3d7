package main

import (
	"log"

	"github.com/kpryor/burin/pkg/build"
	"github.com/kpryor/burin/pkg/engine"
	"github.com/kpryor/burin/pkg/kernel"
	"github.com/kpryor/burin/pkg/kernel/sdfx"
	"github.com/kpryor/burin/pkg/plan"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App wires the script engine, the plan validator, and the geometry
// backend into one evaluation pipeline. It is what the CLI commands
// call into, and its result types are JSON-serializable so a frontend
// can consume them unchanged.
type App struct {
	engine *engine.Engine
	body   kernel.Body
}

// MeshData is the JSON-serializable mesh format for viewers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// FindingData is a JSON-serializable error or warning with source
// position where one is known. Plan validation findings carry no
// source line, so Line is 0 for those.
type FindingData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating and building a script.
type EvalResult struct {
	Meshes   []MeshData    `json:"meshes"`
	Errors   []FindingData `json:"errors"`
	Warnings []FindingData `json:"warnings"`
	Report   string        `json:"report"`
}

// CheckResult is the result of evaluating and validating a script
// without building any geometry.
type CheckResult struct {
	Nodes    int           `json:"nodes"`
	Errors   []FindingData `json:"errors"`
	Warnings []FindingData `json:"warnings"`
}

// NewApp creates an App backed by the sdfx geometry backend.
func NewApp() *App {
	return newAppWithBody(sdfx.New())
}

func newAppWithBody(body kernel.Body) *App {
	return &App{
		engine: engine.NewEngine(),
		body:   body,
	}
}

// Evaluate runs the full pipeline: source script to plan, plan
// validation, then solid construction and meshing. Errors at any
// stage are returned on the result rather than aborting the caller.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []FindingData{},
		Warnings: []FindingData{},
	}

	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, FindingData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, FindingData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	validation := plan.ValidateAll(p)
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, FindingData{Message: w.Message})
	}
	if !validation.OK() {
		for _, e := range validation.Errors {
			result.Errors = append(result.Errors, FindingData{Message: e.Error()})
		}
		return result
	}

	built, err := build.NewBuilder(a.body).Build(p)
	if err != nil {
		log.Printf("Build error: %v", err)
		result.Errors = append(result.Errors, FindingData{Message: err.Error()})
		return result
	}
	result.Report = built.Report

	for i, part := range built.Parts {
		m := part.Mesh
		if m == nil {
			continue
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return result
}

// Check evaluates and validates a script without touching the
// geometry backend.
func (a *App) Check(source string) CheckResult {
	result := CheckResult{
		Errors:   []FindingData{},
		Warnings: []FindingData{},
	}

	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		result.Errors = append(result.Errors, FindingData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, FindingData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	result.Nodes = p.NodeCount()
	validation := plan.ValidateAll(p)
	for _, e := range validation.Errors {
		result.Errors = append(result.Errors, FindingData{Message: e.Error()})
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, FindingData{Message: w.Message})
	}
	return result
}
