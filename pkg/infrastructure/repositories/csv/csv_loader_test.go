package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoader_LoadProducts(t *testing.T) {
	path := writeFile(t, t.TempDir(), "products.csv",
		"product_id,name,unit_of_measure,standard_cost\n"+
			"BIKE,Bicycle,EA,450\n"+
			"FRAME,Frame,EA,120\n")

	products, err := NewLoader().LoadProducts(path)
	if err != nil {
		t.Fatalf("Failed to load products: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(products))
	}
	if products[0].ID != "BIKE" {
		t.Errorf("Expected first product BIKE, got %s", products[0].ID)
	}
	if !products[0].StandardCost.Equal(decimal.NewFromInt(450)) {
		t.Errorf("Expected standard cost 450, got %s", products[0].StandardCost)
	}
}

func TestLoader_LoadBOMs_GroupsByProduct(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.csv",
		"product_id,component_id,quantity_per,unit,scrap_factor,lead_time_days,unit_cost,phantom\n"+
			"BIKE,FRAME,1,EA,0.02,7,120,false\n"+
			"BIKE,WHEEL,2,EA,0,5,35,false\n"+
			"FRAME,TUBE-KIT,1,EA,0,0,40,true\n")

	boms, err := NewLoader().LoadBOMs(path)
	if err != nil {
		t.Fatalf("Failed to load BOMs: %v", err)
	}

	if len(boms) != 2 {
		t.Fatalf("Expected 2 BOMs, got %d", len(boms))
	}
	if boms[0].ProductID != "BIKE" || len(boms[0].Components) != 2 {
		t.Errorf("Expected BIKE BOM with 2 components, got %s with %d",
			boms[0].ProductID, len(boms[0].Components))
	}
	if !boms[1].Components[0].Phantom {
		t.Error("Expected TUBE-KIT to be a phantom")
	}
}

func TestLoader_LoadRoutings_GroupsInSequenceOrder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routings.csv",
		"product_id,sequence,operation,work_center_id,setup_minutes,run_minutes_per_unit,queue_minutes,move_minutes,labor_cost_per_hour,overhead_per_hour\n"+
			"BIKE,10,weld,WELD-01,30,12,60,15,35,20\n"+
			"BIKE,20,assemble,ASSY-01,15,20,30,10,28,15\n")

	routings, err := NewLoader().LoadRoutings(path)
	if err != nil {
		t.Fatalf("Failed to load routings: %v", err)
	}

	if len(routings) != 1 {
		t.Fatalf("Expected 1 routing, got %d", len(routings))
	}
	ops := routings[0].Operations
	if len(ops) != 2 || ops[0].Sequence != 10 || ops[1].Sequence != 20 {
		t.Errorf("Expected operations in sequence 10, 20, got %+v", ops)
	}
	if ops[0].WorkCenterID != "WELD-01" {
		t.Errorf("Expected first operation on WELD-01, got %s", ops[0].WorkCenterID)
	}
}

func TestLoader_LoadWorkCenters_Calendars(t *testing.T) {
	path := writeFile(t, t.TempDir(), "workcenters.csv",
		"work_center_id,name,daily_capacity_minutes,efficiency,machine_cost_per_hour,labor_cost_per_hour,calendar\n"+
			"WELD-01,Welding,480,0.9,60,35,weekdays\n"+
			"ASSY-01,Assembly,960,1.0,40,28,continuous\n")

	centers, err := NewLoader().LoadWorkCenters(path)
	if err != nil {
		t.Fatalf("Failed to load work centers: %v", err)
	}

	if len(centers) != 2 {
		t.Fatalf("Expected 2 work centers, got %d", len(centers))
	}
	if centers[0].Calendar.Workdays[0] {
		t.Error("Weekday calendar should not operate on Sunday")
	}
	if !centers[1].Calendar.Workdays[0] {
		t.Error("Continuous calendar should operate on Sunday")
	}
	if centers[0].EffectiveDailyMinutes() != 432 {
		t.Errorf("Expected 432 effective minutes, got %g", centers[0].EffectiveDailyMinutes())
	}
}

func TestLoader_LoadDemands(t *testing.T) {
	path := writeFile(t, t.TempDir(), "demands.csv",
		"product_id,quantity,need_date,source\n"+
			"BIKE,100,2026-04-01,SO-1001\n"+
			"BIKE,50,2026-04-15,SO-1002\n")

	demands, err := NewLoader().LoadDemands(path)
	if err != nil {
		t.Fatalf("Failed to load demands: %v", err)
	}

	bike := demands["BIKE"]
	if len(bike) != 2 {
		t.Fatalf("Expected 2 demands for BIKE, got %d", len(bike))
	}
	if !bike[0].Quantity.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected first demand 100, got %s", bike[0].Quantity)
	}
	if bike[1].Source != "SO-1002" {
		t.Errorf("Expected source SO-1002, got %s", bike[1].Source)
	}
}

func TestLoader_HeaderMismatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "products.csv",
		"id,name,uom,cost\nBIKE,Bicycle,EA,450\n")

	_, err := NewLoader().LoadProducts(path)
	if err == nil {
		t.Fatal("Expected error for wrong header, got none")
	}
	if !strings.Contains(err.Error(), "header mismatch") {
		t.Errorf("Expected header mismatch error, got: %v", err)
	}
}

func TestLoader_RowErrorNamesRowNumber(t *testing.T) {
	path := writeFile(t, t.TempDir(), "inventory.csv",
		"product_id,quantity\nBIKE,10\nFRAME,-5\n")

	_, err := NewLoader().LoadInventory(path)
	if err == nil {
		t.Fatal("Expected error for negative quantity, got none")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("Expected error to name row 3, got: %v", err)
	}
}
