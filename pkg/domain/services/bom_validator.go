package services

import (
	"fmt"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// BOMValidator checks structural integrity across a set of bills of
// materials. The orchestrator runs it before snapshotting an order's
// requirements: phantom explosion recurses through child BOMs, so a
// cycle would never terminate.
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM graph validation
type ValidationResult struct {
	HasCycles  bool
	CyclePaths [][]entities.ProductID
	Errors     []string
}

// Validate inspects the parent-component graph formed by the given BOMs
func (v *BOMValidator) Validate(boms map[entities.ProductID]*entities.BillOfMaterials) *ValidationResult {
	result := &ValidationResult{
		CyclePaths: make([][]entities.ProductID, 0),
		Errors:     make([]string, 0),
	}

	adjacency := make(map[entities.ProductID][]entities.ProductID, len(boms))
	for parent, bom := range boms {
		for _, c := range bom.Components {
			adjacency[parent] = append(adjacency[parent], c.ComponentID)
		}
	}

	result.CyclePaths = detectCycles(adjacency)
	result.HasCycles = len(result.CyclePaths) > 0

	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}

	return result
}

// detectCycles runs a colored DFS over the component graph
func detectCycles(adjacency map[entities.ProductID][]entities.ProductID) [][]entities.ProductID {
	const (
		white = iota // unvisited
		gray         // on the current path
		black        // fully explored
	)

	color := make(map[entities.ProductID]int)
	var cycles [][]entities.ProductID
	var path []entities.ProductID

	var visit func(node entities.ProductID)
	visit = func(node entities.ProductID) {
		color[node] = gray
		path = append(path, node)

		for _, child := range adjacency[node] {
			switch color[child] {
			case gray:
				// Back edge; extract the cycle from the current path
				start := 0
				for i, p := range path {
					if p == child {
						start = i
						break
					}
				}
				cycle := make([]entities.ProductID, len(path)-start)
				copy(cycle, path[start:])
				cycles = append(cycles, cycle)
			case white:
				visit(child)
			}
		}

		path = path[:len(path)-1]
		color[node] = black
	}

	for node := range adjacency {
		if color[node] == white {
			visit(node)
		}
	}

	return cycles
}
