package calendar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestProductionCalendar_FetchYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /get-period/{token}/{country}/{MM.YYYY}/json
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 5 || parts[1] != "secret" || parts[2] != "ru" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch parts[3] {
		case "01.2025":
			fmt.Fprint(w, `{"status":"ok","country_code":"ru","days":[
				{"date":"01.01.2025","type_id":3,"type_text":"Праздничный день","note":"New Year","working_hours":0},
				{"date":"04.01.2025","type_id":2,"type_text":"Выходной день","working_hours":0},
				{"date":"09.01.2025","type_id":1,"type_text":"Рабочий день","working_hours":8}
			]}`)
		case "06.2025":
			fmt.Fprint(w, `{"status":"ok","country_code":"ru","days":[
				{"date":"11.06.2025","type_id":4,"type_text":"Предпраздничный день","working_hours":7},
				{"date":"12.06.2025","type_id":3,"type_text":"Праздничный день","working_hours":0}
			]}`)
		default:
			fmt.Fprint(w, `{"status":"ok","country_code":"ru","days":[]}`)
		}
	}))
	defer server.Close()

	logger, _ := zap.NewDevelopment()
	pc := NewProductionCalendar(server.URL+"/", "secret", time.Second, logger)

	holidays, err := pc.FetchYear(context.Background(), "RU", 2025)
	if err != nil {
		t.Fatalf("FetchYear() error = %v", err)
	}

	if len(holidays) != 2 {
		t.Fatalf("FetchYear() returned %d holidays, want 2", len(holidays))
	}
	if holidays[0].Name != "New Year" {
		t.Errorf("holiday[0].Name = %q, want note to be used", holidays[0].Name)
	}
	if holidays[1].Name != "Праздничный день" {
		t.Errorf("holiday[1].Name = %q, want type text when note is empty", holidays[1].Name)
	}
	if got := holidays[1].Date.Format("2006-01-02"); got != "2025-06-12" {
		t.Errorf("holiday[1].Date = %s, want 2025-06-12", got)
	}
}

func TestProductionCalendar_GuestTokenError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","days":"guest token cannot access this period"}`)
	}))
	defer server.Close()

	logger, _ := zap.NewDevelopment()
	pc := NewProductionCalendar(server.URL, "guest", time.Second, logger)

	_, err := pc.FetchYear(context.Background(), "RU", 2025)
	if err == nil || !strings.Contains(err.Error(), "guest token") {
		t.Errorf("FetchYear() error = %v, want API error message", err)
	}
}

func TestProductionCalendar_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error"}`)
	}))
	defer server.Close()

	logger, _ := zap.NewDevelopment()
	pc := NewProductionCalendar(server.URL, "token", time.Second, logger)

	if _, err := pc.FetchYear(context.Background(), "RU", 2025); err == nil {
		t.Error("FetchYear() expected error for non-ok status")
	}
}
