package models

import "testing"

func TestTableValid(t *testing.T) {
	for _, table := range Tables() {
		if !table.Valid() {
			t.Errorf("Table %s should be valid", table)
		}
	}
	for _, name := range []string{"users", "", "PROPERTIES"} {
		if Table(name).Valid() {
			t.Errorf("Table %q should not be valid", name)
		}
	}
}

func TestStatusSetsAreClosed(t *testing.T) {
	cases := []struct {
		name    string
		valid   []string
		invalid string
		check   func(string) bool
	}{
		{"property", []string{"available", "sold", "rented"}, "pending",
			func(s string) bool { return PropertyStatus(s).Valid() }},
		{"project", []string{"planned", "in_progress", "done", "suspended"}, "cancelled",
			func(s string) bool { return ProjectStatus(s).Valid() }},
		{"vehicle", []string{"available", "sold", "rented"}, "scrapped",
			func(s string) bool { return VehicleStatus(s).Valid() }},
		{"testimonial", []string{"pending", "approved", "rejected"}, "available",
			func(s string) bool { return TestimonialStatus(s).Valid() }},
		{"contact", []string{"new", "in_progress", "processed"}, "done",
			func(s string) bool { return ContactStatus(s).Valid() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, s := range tc.valid {
				if !tc.check(s) {
					t.Errorf("Status %q should be valid", s)
				}
			}
			if tc.check(tc.invalid) {
				t.Errorf("Status %q should not be valid", tc.invalid)
			}
			if tc.check("") {
				t.Error("Empty status should not be valid")
			}
		})
	}
}

func TestInitStampsNewRow(t *testing.T) {
	p := &Property{Title: "Villa", Status: PropertyAvailable, Version: 9, IsDeleted: true}
	p.Init("some-id", 1700000000)

	if p.ID != "some-id" {
		t.Errorf("Expected id some-id, got %s", p.ID)
	}
	if p.CreatedAt != 1700000000 || p.UpdatedAt != 1700000000 {
		t.Errorf("Init should stamp both timestamps, got %d/%d", p.CreatedAt, p.UpdatedAt)
	}
	if p.Version != 1 {
		t.Errorf("Init should reset version to 1, got %d", p.Version)
	}
	if p.IsDeleted {
		t.Error("Init should clear the deleted flag")
	}
}

func TestTouchBumpsVersion(t *testing.T) {
	defer func(orig func() int64) { nowUnix = orig }(nowUnix)
	nowUnix = func() int64 { return 1700000042 }

	p := &Property{Version: 3}
	p.Touch()

	if p.UpdatedAt != 1700000042 {
		t.Errorf("Expected updated_at 1700000042, got %d", p.UpdatedAt)
	}
	if p.Version != 4 {
		t.Errorf("Expected version 4, got %d", p.Version)
	}
}

func TestCategoricalFields(t *testing.T) {
	v := &Vehicle{Make: "Toyota", FuelType: "diesel", City: "Lomé", Status: VehicleAvailable}

	for field, want := range map[string]string{
		"make": "Toyota", "fuel_type": "diesel", "city": "Lomé", "status": "available",
	} {
		got, ok := v.CategoricalField(field)
		if !ok || got != want {
			t.Errorf("CategoricalField(%q) = %q, %v; want %q", field, got, ok, want)
		}
	}

	if _, ok := v.CategoricalField("neighborhood"); ok {
		t.Error("Vehicles should not expose a neighborhood field")
	}
}

func TestPriceAmount(t *testing.T) {
	if price, ok := (&Property{Price: 45000000}).PriceAmount(); !ok || price != 45000000 {
		t.Errorf("Property price = %v, %v", price, ok)
	}
	if budget, ok := (&Project{Budget: 300000000}).PriceAmount(); !ok || budget != 300000000 {
		t.Errorf("Project budget should act as its price, got %v, %v", budget, ok)
	}
	if _, ok := (&Testimonial{}).PriceAmount(); ok {
		t.Error("Testimonials are not priced")
	}
	if _, ok := (&ContactMessage{}).PriceAmount(); ok {
		t.Error("Contact messages are not priced")
	}
}

func TestUUIDScan(t *testing.T) {
	var u UUID
	if err := u.Scan("abc"); err != nil || u != "abc" {
		t.Errorf("Scan string failed: %v, %s", err, u)
	}
	if err := u.Scan([]byte("def")); err != nil || u != "def" {
		t.Errorf("Scan bytes failed: %v, %s", err, u)
	}
	if err := u.Scan(nil); err != nil || u != "" {
		t.Errorf("Scan nil failed: %v, %q", err, u)
	}
	if err := u.Scan(42); err == nil {
		t.Error("Scan should reject an int")
	}
}
