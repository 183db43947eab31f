package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// Loader reads planning scenario data from CSV files. Each file carries
// a fixed header; rows are validated through the entity constructors so
// malformed data fails with a row number, never half-loads.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProducts loads product master data from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readCSV(filename, []string{
		"product_id", "name", "unit_of_measure", "standard_cost",
	})
	if err != nil {
		return nil, err
	}

	var products []*entities.Product
	for i, record := range records {
		cost, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: invalid standard_cost %q", i+2, record[3])
		}
		product, err := entities.NewProduct(
			entities.ProductID(record[0]), record[1], record[2], cost,
		)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// LoadBOMs loads component lines and groups them into one bill of
// materials per product.
func (l *Loader) LoadBOMs(filename string) ([]*entities.BillOfMaterials, error) {
	records, err := readCSV(filename, []string{
		"product_id", "component_id", "quantity_per", "unit",
		"scrap_factor", "lead_time_days", "unit_cost", "phantom",
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[entities.ProductID][]entities.Component)
	var order []entities.ProductID
	for i, record := range records {
		component, err := parseComponent(record)
		if err != nil {
			return nil, fmt.Errorf("bom CSV row %d: %w", i+2, err)
		}
		productID := entities.ProductID(record[0])
		if _, seen := grouped[productID]; !seen {
			order = append(order, productID)
		}
		grouped[productID] = append(grouped[productID], *component)
	}

	var boms []*entities.BillOfMaterials
	for _, productID := range order {
		bom, err := entities.NewBillOfMaterials(productID, 1, time.Now(), grouped[productID])
		if err != nil {
			return nil, fmt.Errorf("bom for %s: %w", productID, err)
		}
		boms = append(boms, bom)
	}
	return boms, nil
}

// LoadRoutings loads operation lines and groups them into one routing
// per product. Rows must appear in sequence order within a product.
func (l *Loader) LoadRoutings(filename string) ([]*entities.Routing, error) {
	records, err := readCSV(filename, []string{
		"product_id", "sequence", "operation", "work_center_id",
		"setup_minutes", "run_minutes_per_unit", "queue_minutes", "move_minutes",
		"labor_cost_per_hour", "overhead_per_hour",
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[entities.ProductID][]entities.Operation)
	var order []entities.ProductID
	for i, record := range records {
		operation, err := parseOperation(record)
		if err != nil {
			return nil, fmt.Errorf("routing CSV row %d: %w", i+2, err)
		}
		productID := entities.ProductID(record[0])
		if _, seen := grouped[productID]; !seen {
			order = append(order, productID)
		}
		grouped[productID] = append(grouped[productID], *operation)
	}

	var routings []*entities.Routing
	for _, productID := range order {
		routing, err := entities.NewRouting(productID, 1, grouped[productID])
		if err != nil {
			return nil, fmt.Errorf("routing for %s: %w", productID, err)
		}
		routings = append(routings, routing)
	}
	return routings, nil
}

// LoadWorkCenters loads work center definitions from a CSV file
func (l *Loader) LoadWorkCenters(filename string) ([]*entities.WorkCenter, error) {
	records, err := readCSV(filename, []string{
		"work_center_id", "name", "daily_capacity_minutes", "efficiency",
		"machine_cost_per_hour", "labor_cost_per_hour", "calendar",
	})
	if err != nil {
		return nil, err
	}

	var centers []*entities.WorkCenter
	for i, record := range records {
		capacity, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("work centers CSV row %d: invalid daily_capacity_minutes %q", i+2, record[2])
		}
		efficiency, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("work centers CSV row %d: invalid efficiency %q", i+2, record[3])
		}
		machineCost, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("work centers CSV row %d: invalid machine_cost_per_hour %q", i+2, record[4])
		}
		laborCost, err := decimal.NewFromString(record[5])
		if err != nil {
			return nil, fmt.Errorf("work centers CSV row %d: invalid labor_cost_per_hour %q", i+2, record[5])
		}
		calendar, err := parseCalendar(record[6])
		if err != nil {
			return nil, fmt.Errorf("work centers CSV row %d: %w", i+2, err)
		}

		wc, err := entities.NewWorkCenter(
			entities.WorkCenterID(record[0]), record[1],
			capacity, efficiency, machineCost, laborCost, calendar,
		)
		if err != nil {
			return nil, fmt.Errorf("work centers CSV row %d: %w", i+2, err)
		}
		centers = append(centers, wc)
	}
	return centers, nil
}

// LoadInventory loads on-hand snapshot quantities from a CSV file
func (l *Loader) LoadInventory(filename string) (map[entities.ProductID]decimal.Decimal, error) {
	records, err := readCSV(filename, []string{"product_id", "quantity"})
	if err != nil {
		return nil, err
	}

	onHand := make(map[entities.ProductID]decimal.Decimal, len(records))
	for i, record := range records {
		qty, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid quantity %q", i+2, record[1])
		}
		if qty.IsNegative() {
			return nil, fmt.Errorf("inventory CSV row %d: negative quantity %s", i+2, qty)
		}
		onHand[entities.ProductID(record[0])] = qty
	}
	return onHand, nil
}

// LoadDemands loads dated demands from a CSV file. Each row names the
// product it demands; the caller groups rows per product for MRP runs.
func (l *Loader) LoadDemands(filename string) (map[entities.ProductID][]entities.Demand, error) {
	records, err := readCSV(filename, []string{"product_id", "quantity", "need_date", "source"})
	if err != nil {
		return nil, err
	}

	demands := make(map[entities.ProductID][]entities.Demand)
	for i, record := range records {
		qty, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("demands CSV row %d: invalid quantity %q", i+2, record[1])
		}
		needDate, err := time.Parse("2006-01-02", record[2])
		if err != nil {
			return nil, fmt.Errorf("demands CSV row %d: invalid need_date %q (expected YYYY-MM-DD)", i+2, record[2])
		}

		productID := entities.ProductID(record[0])
		demands[productID] = append(demands[productID], entities.Demand{
			Quantity: qty,
			Date:     needDate,
			Source:   record[3],
		})
	}
	return demands, nil
}

// readCSV opens a file, checks the header, and returns the data rows
func readCSV(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have a header and at least one data row", filename)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", filename, expectedHeader, records[0])
	}
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", filename, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseComponent(record []string) (*entities.Component, error) {
	qtyPer, err := decimal.NewFromString(record[2])
	if err != nil {
		return nil, fmt.Errorf("invalid quantity_per: %s", record[2])
	}
	scrap, err := decimal.NewFromString(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid scrap_factor: %s", record[4])
	}
	leadDays, err := strconv.Atoi(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid lead_time_days: %s", record[5])
	}
	unitCost, err := decimal.NewFromString(record[6])
	if err != nil {
		return nil, fmt.Errorf("invalid unit_cost: %s", record[6])
	}
	phantom, err := strconv.ParseBool(record[7])
	if err != nil {
		return nil, fmt.Errorf("invalid phantom flag: %s", record[7])
	}

	return entities.NewComponent(
		entities.ProductID(record[1]), qtyPer, record[3], scrap, leadDays, unitCost, phantom,
	)
}

func parseOperation(record []string) (*entities.Operation, error) {
	sequence, err := strconv.Atoi(record[1])
	if err != nil {
		return nil, fmt.Errorf("invalid sequence: %s", record[1])
	}
	times := make([]float64, 4)
	for i, col := range []int{4, 5, 6, 7} {
		times[i], err = strconv.ParseFloat(record[col], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid time value: %s", record[col])
		}
	}
	laborCost, err := decimal.NewFromString(record[8])
	if err != nil {
		return nil, fmt.Errorf("invalid labor_cost_per_hour: %s", record[8])
	}
	overhead, err := decimal.NewFromString(record[9])
	if err != nil {
		return nil, fmt.Errorf("invalid overhead_per_hour: %s", record[9])
	}

	return entities.NewOperation(
		sequence, record[2], entities.WorkCenterID(record[3]),
		times[0], times[1], times[2], times[3],
		laborCost, overhead,
	)
}

func parseCalendar(s string) (entities.Calendar, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "weekdays", "":
		return entities.DefaultCalendar(), nil
	case "continuous":
		return entities.ContinuousCalendar(), nil
	default:
		return entities.Calendar{}, fmt.Errorf("invalid calendar: %s (expected 'weekdays' or 'continuous')", s)
	}
}
