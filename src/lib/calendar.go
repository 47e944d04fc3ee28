package lib

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path"
	"time"

	"portal/src/types"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var calsvc *calendar.Service

func getCalendarClient(conf *oauth2.Config) (*http.Client, error) {
	tokFile, err := os.Open("token.json")
	if err != nil {
		return nil, err
	}
	defer tokFile.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(tokFile).Decode(tok); err != nil {
		return nil, err
	}

	cli := conf.Client(context.Background(), tok)
	return cli, nil
}

func gapiGetCalendarService() (svc *calendar.Service, err error) {
	if calsvc != nil {
		return calsvc, nil
	}
	secretsPath := os.Getenv("SECRETS_DIR")
	b, err := os.ReadFile(path.Join(secretsPath, "calendar-credentials.json"))
	if err != nil {
		return nil, err
	}
	conf, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, err
	}
	cli, err := getCalendarClient(conf)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(context.Background(), option.WithHTTPClient(cli))
	if err != nil {
		return nil, err
	}
	calsvc = srv
	return srv, nil
}

// NewCalendarService Replace calendar service with custom implementation
func NewCalendarService(s *calendar.Service) *calendar.Service {
	calsvc = s
	return calsvc
}

// GAPIListUpcomingEvents reads the campus calendar and maps its entries to
// the shape the reconciler consumes. All-day events carry a date only; their
// start is taken as midnight UTC.
func GAPIListUpcomingEvents(calId string, max int64, s *calendar.Service) ([]types.CalendarEvent, error) {
	var err error
	if s == nil {
		s, err = gapiGetCalendarService()
		if err != nil {
			return nil, err
		}
	}
	now := time.Now()
	list, err := s.Events.List(calId).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(now.Format(time.RFC3339)).
		MaxResults(max).
		Do()
	if err != nil {
		return nil, err
	}
	events := make([]types.CalendarEvent, 0, len(list.Items))
	for _, item := range list.Items {
		if item.Start == nil {
			continue
		}
		var start time.Time
		if item.Start.DateTime != "" {
			start, err = time.Parse(time.RFC3339, item.Start.DateTime)
		} else {
			start, err = time.Parse("2006-01-02", item.Start.Date)
		}
		if err != nil {
			continue
		}
		events = append(events, types.CalendarEvent{
			ID:          item.Id,
			Title:       item.Summary,
			StartTime:   start,
			Location:    item.Location,
			Description: item.Description,
		})
	}
	return events, nil
}
