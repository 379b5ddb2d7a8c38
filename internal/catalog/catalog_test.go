package catalog

import "testing"

func TestMatchKeywordsTableOrder(t *testing.T) {
	// "consultation" triggers Doctor Appointment before Consultation because
	// the doctor entry appears first in the table.
	svc, ok := MatchKeywords("I'd like a consultation")
	if !ok {
		t.Fatal("expected a match")
	}
	if svc.Name != "Doctor Appointment" {
		t.Errorf("expected table-order tie break to Doctor Appointment, got %s", svc.Name)
	}
}

func TestMatchKeywordsCaseInsensitive(t *testing.T) {
	svc, ok := MatchKeywords("Need a MASSAGE this weekend")
	if !ok || svc.Name != "Spa Treatment" {
		t.Fatalf("expected Spa Treatment, got %v ok=%v", svc.Name, ok)
	}
}

func TestMatchKeywordsNoMatch(t *testing.T) {
	if _, ok := MatchKeywords("completely unrelated text"); ok {
		t.Error("expected no match")
	}
}

func TestLookup(t *testing.T) {
	svc, ok := Lookup("Travel Booking")
	if !ok || svc.Price != 500 {
		t.Fatalf("unexpected lookup result: %+v ok=%v", svc, ok)
	}
	if _, ok := Lookup("Skydiving"); ok {
		t.Error("expected unknown service to miss")
	}
}

func TestPriceLabel(t *testing.T) {
	paid, _ := Lookup("Doctor Appointment")
	if paid.PriceLabel() != "$100" {
		t.Errorf("expected $100, got %s", paid.PriceLabel())
	}
	free, _ := Lookup("Restaurant Reservation")
	if free.PriceLabel() != "Free" {
		t.Errorf("expected Free, got %s", free.PriceLabel())
	}
}

func TestNamesOrdered(t *testing.T) {
	names := Names()
	if len(names) != 9 {
		t.Fatalf("expected 9 services, got %d", len(names))
	}
	if names[0] != "Doctor Appointment" || names[8] != "Consultation" {
		t.Errorf("unexpected catalog order: %v", names)
	}
}
